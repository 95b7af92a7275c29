// Package errors provides the structured error type for the texsvg library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Every failure of instance construction, bundle loading or rendering surfaces as an
// *Error; raw interpreter errors never escape, they are attached as Cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEval, errors.KindEvaluation).
//		Input(tex).
//		Detail("render failed").
//		Cause(jsErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(tex, "undefined")
//	err := errors.NotReady("failed")
//
// Kind sentinels work with the standard library:
//
//	if errors.Is(err, texerrors.ErrResourceExceeded) { ... }
package errors
