// Package texsvg renders TeX math to self-contained SVG by evaluating a
// MathJax bundle inside an embedded JavaScript interpreter.
//
// # Architecture Overview
//
//	texsvg/          Shared process-wide renderer: Render, RenderInline
//	├── runtime/     Caller-owned Renderer, request marshalling, result checks
//	├── engine/      QuickJS interpreter lifecycle and resource ceilings
//	├── bundle/      Bundle source loading
//	├── errors/      Structured error types
//	├── svgdoc/      Checks on rendered markup
//	├── config/      Environment and flag configuration
//	├── mathdoc/     Markdown with $...$ math via goldmark
//	└── server/      HTTP render service
//
// # Quick Start
//
//	svg, err := texsvg.Render(`\int_0^1 x^2\,dx`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The first call loads the bundle named by TEXSVG_BUNDLE (default
// js/mathjax_bundle.js) into a single interpreter; later calls reuse it.
// If loading fails, every call returns the same error.
//
// For an instance with its own ceilings and lifetime use runtime.New:
//
//	r, err := runtime.New(src, runtime.WithStackLimit(8<<20))
//	defer r.Close()
//
// # Error Handling
//
// All failures are *errors.Error values:
//
//	_, err := texsvg.Render(`x^{2`)
//	if errors.Is(err, texerrors.ErrEvaluation) {
//	    // the bundle rejected the input
//	}
//
// # Thread Safety
//
// The package-level functions are safe for concurrent use; calls are
// serialized on the one shared interpreter. runtime.Renderer and
// engine.Interpreter are not thread-safe.
package texsvg
