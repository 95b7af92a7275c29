package engine

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"modernc.org/quickjs"

	"github.com/wippyai/texsvg/bundle"
	"github.com/wippyai/texsvg/errors"
)

// Entry point names the bundle must define on the global object.
const (
	EntryDisplay = "render"
	EntryInline  = "renderInline"
)

// EntryPoints lists every global function checked after a bundle loads.
var EntryPoints = []string{EntryDisplay, EntryInline}

// randSeed fixes Math.random so identical inputs typeset identically.
const randSeed = 0x7e5

// seededRandom replaces Math.random with a mulberry32 generator.
const seededRandom = `(function (seed) {
  var a = seed;
  Math.random = function () {
    a = (a + 0x6d2b79f5) | 0;
    var t = Math.imul(a ^ (a >>> 15), 1 | a);
    t = (t + Math.imul(t ^ (t >>> 7), 61 | t)) ^ t;
    return ((t ^ (t >>> 14)) >>> 0) / 4294967296;
  };
})(%d);`

// State tracks an interpreter through its lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Interpreter is a single JavaScript interpreter instance with its own
// global state and resource ceilings.
//
// Interpreter is NOT safe for concurrent use. Callers must serialize Load,
// Eval and Close.
type Interpreter struct {
	vm    *quickjs.VM
	cfg   Config
	src   bundle.Source
	state atomic.Int32
}

// New creates an interpreter with the given ceilings. A nil cfg selects
// DefaultConfig. Ceilings are fixed for the interpreter's lifetime.
func New(cfg *Config) (*Interpreter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	vm, err := quickjs.NewVM()
	if err != nil {
		return nil, errors.Initialization(errors.PhaseConfig, "create interpreter", err)
	}
	vm.SetMemoryLimit(cfg.MemoryLimit())
	vm.SetMaxStackSize(cfg.StackSlots())

	if _, err := vm.Eval(fmt.Sprintf(seededRandom, randSeed), quickjs.EvalGlobal); err != nil {
		vm.Close()
		return nil, errors.Initialization(errors.PhaseConfig, "seed Math.random", err)
	}

	in := &Interpreter{vm: vm, cfg: *cfg}
	in.state.Store(int32(StateUninitialized))

	Logger().Debug("interpreter created",
		zap.Uint64("stack_limit", cfg.StackLimitBytes),
		zap.Uint64("heap_limit", cfg.HeapLimitBytes),
		zap.Uint64("stack_slots", uint64(cfg.StackSlots())))
	return in, nil
}

// State returns the current lifecycle state.
func (in *Interpreter) State() State {
	return State(in.state.Load())
}

// Config returns a copy of the interpreter's ceilings.
func (in *Interpreter) Config() Config {
	return in.cfg
}

// Bundle returns the source passed to Load, or the zero Source before Load.
func (in *Interpreter) Bundle() bundle.Source {
	return in.src
}

// Load evaluates the bundle once and verifies its entry points. It is valid
// only on a fresh interpreter; any failure leaves the interpreter Failed.
func (in *Interpreter) Load(src bundle.Source) error {
	if st := in.State(); st != StateUninitialized {
		return errors.Initialization(errors.PhaseLoad,
			fmt.Sprintf("cannot load bundle into %s interpreter", st), nil)
	}
	in.state.Store(int32(StateLoading))
	in.src = src

	if err := in.load(src); err != nil {
		in.state.Store(int32(StateFailed))
		Logger().Debug("bundle load failed", zap.String("bundle", src.Name), zap.Error(err))
		return err
	}

	in.state.Store(int32(StateReady))
	Logger().Debug("bundle loaded",
		zap.String("bundle", src.Name),
		zap.Int("size", src.Size()),
		zap.String("digest", src.ShortDigest()))
	return nil
}

func (in *Interpreter) load(src bundle.Source) error {
	// The source text is resident while it compiles.
	size := uint64(src.Size())
	if size >= in.cfg.HeapLimitBytes {
		return errors.Initialization(errors.PhaseLoad, "bundle does not fit heap ceiling",
			errors.ResourceExceeded(errors.PhaseLoad, "heap", in.cfg.HeapLimitBytes,
				fmt.Errorf("bundle source is %d bytes", size)))
	}

	var code []byte
	err := in.run(func() (err error) {
		code, err = in.vm.Compile(src.Code, quickjs.EvalGlobal)
		return err
	})
	if err != nil {
		return in.translate(errors.PhaseLoad, "compile bundle "+in.srcName(), "", err)
	}

	if err := in.run(func() error {
		_, err := in.vm.EvalBytecode(code)
		return err
	}); err != nil {
		return in.translate(errors.PhaseLoad, "evaluate bundle "+in.srcName(), "", err)
	}

	for _, name := range EntryPoints {
		var kind any
		err := in.run(func() (err error) {
			kind, err = in.vm.Eval("typeof globalThis."+name, quickjs.EvalGlobal)
			return err
		})
		if err != nil {
			return in.translate(errors.PhaseLoad, "inspect bundle "+in.srcName(), "", err)
		}
		if kind != "function" {
			return errors.Initialization(errors.PhaseLoad,
				fmt.Sprintf("bundle %s does not define function %s", src.Name, name), nil)
		}
	}
	return nil
}

// Eval evaluates a JavaScript expression in the interpreter's global scope
// and returns its value converted to Go: string, int, float64, bool,
// *big.Int, *quickjs.Object, quickjs.Undefined, quickjs.Unsupported or nil
// for null.
func (in *Interpreter) Eval(expr string) (any, error) {
	if st := in.State(); st != StateReady {
		return nil, errors.NotReady(st.String())
	}
	var v any
	err := in.run(func() (err error) {
		v, err = in.vm.Eval(expr, quickjs.EvalGlobal)
		return err
	})
	if err != nil {
		return nil, in.translate(errors.PhaseEval, "", expr, err)
	}
	return v, nil
}

// Close releases the interpreter and its memory. Close is idempotent.
func (in *Interpreter) Close() error {
	if in.State() == StateClosed {
		return nil
	}
	in.state.Store(int32(StateClosed))
	vm := in.vm
	in.vm = nil
	Logger().Debug("interpreter closed", zap.String("bundle", in.src.Name))
	if vm == nil {
		return nil
	}
	return vm.Close()
}

// run executes fn, converting Go panics escaping the interpreter to errors.
func (in *Interpreter) run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreter panic: %v", r)
		}
	}()
	return fn()
}
