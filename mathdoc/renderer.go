package mathdoc

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/wippyai/texsvg"
	"github.com/wippyai/texsvg/runtime"
)

// HTMLRenderer renders Math nodes by typesetting them to SVG.
type HTMLRenderer struct {
	renderer texsvg.Renderer
	strict   bool
	onError  func(tex string, display bool, err error)
}

// NewHTMLRenderer returns a renderer.NodeRenderer for Math nodes.
func NewHTMLRenderer(r texsvg.Renderer, opts ...Option) renderer.NodeRenderer {
	e := newExtension(r, opts)
	return &HTMLRenderer{renderer: e.renderer, strict: e.strict, onError: e.onError}
}

// RegisterFuncs implements renderer.NodeRenderer.RegisterFuncs.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
}

func (r *HTMLRenderer) renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)

	mode, class := runtime.Inline, "math inline"
	if n.Display {
		mode, class = runtime.Display, "math display"
	}

	svg, err := r.renderer.Render(string(n.TeX), mode)
	if err != nil {
		if r.strict {
			return ast.WalkStop, err
		}
		if r.onError != nil {
			r.onError(string(n.TeX), n.Display, err)
		}
		_, _ = w.WriteString(`<code class="math-error">`)
		_, _ = w.Write(util.EscapeHTML(n.TeX))
		_, _ = w.WriteString(`</code>`)
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(`<span class="`)
	_, _ = w.WriteString(class)
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(svg)
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}
