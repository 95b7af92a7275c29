package errors

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig   Phase = "config"   // resource ceilings and options
	PhaseLoad     Phase = "load"     // bundle loading
	PhaseEval     Phase = "eval"     // entry point invocation
	PhaseValidate Phase = "validate" // result checks
)

// Kind categorizes the error
type Kind string

const (
	KindInitialization   Kind = "initialization_error"
	KindEvaluation       Kind = "evaluation_error"
	KindNotReady         Kind = "engine_not_ready"
	KindTypeMismatch     Kind = "type_mismatch_error"
	KindResourceExceeded Kind = "resource_exceeded"
)

// MaxSnippetRunes bounds the input excerpt carried by an Error.
const MaxSnippetRunes = 80

// Sentinels match any *Error of the same Kind regardless of phase:
//
//	if errors.Is(err, texerrors.ErrEvaluation) { ... }
var (
	ErrInitialization   = &Error{Kind: KindInitialization}
	ErrEvaluation       = &Error{Kind: KindEvaluation}
	ErrNotReady         = &Error{Kind: KindNotReady}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
	ErrResourceExceeded = &Error{Kind: KindResourceExceeded}
)

// Error is the structured error type returned by every rendering operation
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	Detail  string
	Snippet string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.GoType != "" {
		b.WriteString(": got ")
		b.WriteString(e.GoType)
		if e.Detail != "" {
			b.WriteString(" - ")
			b.WriteString(e.Detail)
		}
	} else if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Snippet != "" {
		b.WriteString(" (input ")
		b.WriteString(strconv.Quote(e.Snippet))
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Snippet bounds s to MaxSnippetRunes runes, marking truncation with "...".
func Snippet(s string) string {
	if utf8.RuneCountInString(s) <= MaxSnippetRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxSnippetRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// GoType sets the name of the unexpected value type
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Input records a bounded excerpt of the offending input
func (b *Builder) Input(s string) *Builder {
	b.err.Snippet = Snippet(s)
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Initialization creates an error for a failed instance construction or bundle load
func Initialization(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInitialization,
		Detail: detail,
		Cause:  cause,
	}
}

// Misconfigured creates an initialization error for invalid options
func Misconfigured(format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInitialization,
		Detail: fmt.Sprintf(format, args...),
	}
}

// NotReady creates an error for an instance used outside the ready state
func NotReady(state string) *Error {
	return New(PhaseEval, KindNotReady).Detail("engine is %s", state).Build()
}

// Evaluation creates an error for a failure raised by the interpreter
func Evaluation(input string, cause error) *Error {
	return New(PhaseEval, KindEvaluation).
		Detail("render failed").
		Input(input).
		Cause(cause).
		Build()
}

// TypeMismatch creates an error for a non-string interpreter result
func TypeMismatch(input, gotType string) *Error {
	return New(PhaseValidate, KindTypeMismatch).
		GoType(gotType).
		Detail("want string").
		Input(input).
		Build()
}

// ResourceExceeded creates an error for a stack or heap ceiling hit
func ResourceExceeded(phase Phase, resource string, limit uint64, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindResourceExceeded,
		Detail: fmt.Sprintf("%s ceiling of %d bytes exceeded", resource, limit),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
