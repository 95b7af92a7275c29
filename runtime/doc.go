// Package runtime provides the render call on top of an engine.Interpreter.
//
// # Quick Start
//
//	src, err := bundle.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := runtime.New(src, runtime.WithHeapLimit(64<<20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	svg, err := r.Render(`E = mc^2`, runtime.Display)
//
// Or scoped, closing the renderer on every exit path:
//
//	err := runtime.With(src, func(r *runtime.Renderer) error {
//	    svg, err := r.Render(`x^2`, runtime.Inline)
//	    ...
//	})
//
// # Call Path
//
//	Render(tex, mode)
//	  Marshal      tex as a JS string literal applied to render or renderInline
//	  Eval         interpreter call under the stack and heap ceilings
//	  validate     non-string results become KindTypeMismatch
//
// Every failure is an *errors.Error carrying a bounded excerpt of the TeX
// input. Use errors.Is with the errors sentinels to branch on kind.
//
// # Thread Safety
//
// Renderer is NOT thread-safe. The texsvg package offers a shared, mutex
// guarded instance for callers that do not want to own one.
package runtime
