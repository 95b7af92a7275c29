// Package engine hosts the embedded JavaScript interpreter that evaluates the
// typesetting bundle.
//
// An Interpreter moves through a fixed lifecycle:
//
//	New()   -> Uninitialized   ceilings applied, no bundle yet
//	Load()  -> Loading -> Ready | Failed
//	Eval()  valid only while Ready
//	Close() -> Closed          idempotent
//
// # Resource Ceilings
//
// Config carries two ceilings fixed at construction and applied to the
// interpreter before any bundle code runs:
//
//	StackLimitBytes  converted to the interpreter's stack slot budget at
//	                 SlotBytes per slot
//	HeapLimitBytes   the interpreter's own allocator limit; it covers the
//	                 compiled bundle and everything retained between calls
//
// Each Interpreter has a private heap, so ceilings of separate instances
// do not interact. Both surface as errors.KindResourceExceeded. A failure
// while loading is wrapped in errors.KindInitialization with the ceiling
// error as its cause.
//
// # Determinism
//
// Math.random is replaced with a fixed-seed generator so identical inputs
// evaluate identically on every instance.
//
// # Thread Safety
//
// Interpreter is NOT thread-safe and should be used by a single goroutine
// at a time. Higher layers (runtime.Renderer, the texsvg facade) serialize
// access.
//
// Most users should use the texsvg package or the runtime package.
package engine
