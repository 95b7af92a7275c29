// Package mathdoc renders markdown documents whose $...$ and $$...$$ spans
// are typeset to inline SVG.
//
//	var buf bytes.Buffer
//	err := mathdoc.Convert(src, &buf, texsvg.Default)
//
// The package is a goldmark extension; Extension can be combined with other
// goldmark extensions directly.
package mathdoc

import (
	"io"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/wippyai/texsvg"
)

// Option configures the extension.
type Option func(*Extension)

// WithStrict makes the first failed formula abort conversion with its error.
func WithStrict() Option {
	return func(e *Extension) { e.strict = true }
}

// WithErrorHandler is called for every formula that fails to render in
// non-strict mode.
func WithErrorHandler(fn func(tex string, display bool, err error)) Option {
	return func(e *Extension) { e.onError = fn }
}

// Extension is a goldmark.Extender adding math spans.
type Extension struct {
	renderer texsvg.Renderer
	strict   bool
	onError  func(tex string, display bool, err error)
}

// New returns the math extension rendering through r.
func New(r texsvg.Renderer, opts ...Option) *Extension {
	return newExtension(r, opts)
}

func newExtension(r texsvg.Renderer, opts []Option) *Extension {
	e := &Extension{renderer: r}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewMathParser(), 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&HTMLRenderer{renderer: e.renderer, strict: e.strict, onError: e.onError}, 500),
	))
}

// Convert renders GitHub flavored markdown src to HTML on w, typesetting
// math through r.
func Convert(src []byte, w io.Writer, r texsvg.Renderer, opts ...Option) error {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			New(r, opts...),
		),
	)
	return md.Convert(src, w)
}

// FormatMathML renders markdown src to HTML with math as MathML, without
// the typesetting engine.
func FormatMathML(src []byte, w io.Writer) error {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			treeblood.MathML(),
		),
	)
	return md.Convert(src, w)
}
