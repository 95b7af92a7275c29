package mathdoc

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindMath is the NodeKind of Math nodes.
var KindMath = ast.NewNodeKind("Math")

// Math is a TeX span delimited by $...$ (inline) or $$...$$ (display).
type Math struct {
	ast.BaseInline

	// Display is true for $$...$$.
	Display bool

	// TeX is the source between the delimiters.
	TeX []byte
}

// NewMath returns a new Math node.
func NewMath(tex []byte, display bool) *Math {
	return &Math{TeX: tex, Display: display}
}

// Kind implements ast.Node.Kind.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.Dump.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.Display),
		"TeX":     string(n.TeX),
	}, nil)
}
