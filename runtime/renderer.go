package runtime

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/texsvg/bundle"
	"github.com/wippyai/texsvg/engine"
	"github.com/wippyai/texsvg/errors"
)

type options struct {
	cfg    engine.Config
	logger *zap.Logger
}

// Option configures a Renderer.
type Option func(*options)

// WithStackLimit sets the interpreter stack ceiling in bytes.
func WithStackLimit(bytes uint64) Option {
	return func(o *options) { o.cfg.StackLimitBytes = bytes }
}

// WithHeapLimit sets the interpreter heap ceiling in bytes.
func WithHeapLimit(bytes uint64) Option {
	return func(o *options) { o.cfg.HeapLimitBytes = bytes }
}

// WithLogger sets the renderer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Renderer owns one interpreter with the bundle loaded.
//
// Renderer is NOT thread-safe. Callers sharing a Renderer across goroutines
// must serialize Render and Close themselves.
type Renderer struct {
	in  *engine.Interpreter
	log *zap.Logger
}

// New constructs an interpreter with the configured ceilings and loads src
// into it. The ceilings are applied before the bundle is evaluated.
func New(src bundle.Source, opts ...Option) (*Renderer, error) {
	o := options{cfg: *engine.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	in, err := engine.New(&o.cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := in.Load(src); err != nil {
		in.Close()
		log.Warn("renderer construction failed", zap.String("bundle", src.Name), zap.Error(err))
		return nil, err
	}

	log.Info("renderer ready",
		zap.String("bundle", src.Name),
		zap.String("digest", src.ShortDigest()),
		zap.Duration("load_time", time.Since(start)))
	return &Renderer{in: in, log: log}, nil
}

// With constructs a Renderer, passes it to fn and closes it on every exit path.
func With(src bundle.Source, fn func(*Renderer) error, opts ...Option) error {
	r, err := New(src, opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

// Render typesets tex and returns the bundle's markup document. Any failure
// is a *errors.Error; a failed render leaves the Renderer usable.
func (r *Renderer) Render(tex string, mode Mode) (string, error) {
	start := time.Now()

	v, err := r.in.Eval(Marshal(tex, mode))
	if err != nil {
		err = withInput(err, tex)
		r.log.Debug("render failed",
			zap.Stringer("mode", mode),
			zap.String("kind", string(errors.KindOf(err))),
			zap.Error(err))
		return "", err
	}

	out, err := validateResult(v, tex)
	if err != nil {
		r.log.Debug("render returned non-string", zap.Stringer("mode", mode), zap.Error(err))
		return "", err
	}

	r.log.Debug("rendered",
		zap.Stringer("mode", mode),
		zap.Int("tex_len", len(tex)),
		zap.Int("out_len", len(out)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// RenderRequest is Render for a Request value.
func (r *Renderer) RenderRequest(req Request) (string, error) {
	return r.Render(req.TeX, req.Mode)
}

// State reports the underlying interpreter state.
func (r *Renderer) State() engine.State {
	return r.in.State()
}

// Bundle returns the loaded bundle.
func (r *Renderer) Bundle() bundle.Source {
	return r.in.Bundle()
}

// Config returns the interpreter ceilings.
func (r *Renderer) Config() engine.Config {
	return r.in.Config()
}

// Close releases the interpreter. Later renders fail with KindNotReady.
func (r *Renderer) Close() error {
	return r.in.Close()
}

// withInput replaces the expression excerpt on an interpreter error with
// the caller's TeX.
func withInput(err error, tex string) error {
	te, ok := err.(*errors.Error)
	if !ok || te.Kind == errors.KindNotReady {
		return err
	}
	cp := *te
	cp.Snippet = errors.Snippet(tex)
	return &cp
}
