package svgdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<mjx-container class="MathJax" jax="SVG" display="true">` +
	`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="1.2ex" viewBox="0 -750 500 1000">` +
	`<defs><path id="MJX-1-TEX-I-1D465" d="M52 289Q59 331"></path></defs>` +
	`<g><use xlink:href="#MJX-1-TEX-I-1D465"></use>` +
	`<svg x="100" y="0"><rect width="10" height="10"></rect></svg></g>` +
	`</svg></mjx-container>`

func TestCheck(t *testing.T) {
	require.NoError(t, Check(sample))
	require.NoError(t, Check(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
}

func TestCheck_Failures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"empty", "", "no <svg>"},
		{"no svg", `<mjx-container></mjx-container>`, "no <svg>"},
		{"unclosed", `<svg xmlns="http://www.w3.org/2000/svg"><g></svg>`, "malformed"},
		{"truncated", `<svg><g></g>`, "malformed"},
		{"href", `<svg><image href="https://example.com/x.png"></image></svg>`, "external reference"},
		{"xlink href", `<svg xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="http://example.com/#a"></use></svg>`, "external reference"},
		{"text", `<svg><text>see http://example.com</text></svg>`, "external reference"},
		{"style", `<svg style="background:url(https://example.com/a.png)"></svg>`, "external reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExtract(t *testing.T) {
	svg, err := Extract(sample)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.True(t, strings.HasSuffix(svg, `</svg></g></svg>`))
	assert.NotContains(t, svg, "mjx-container")
	require.NoError(t, Check(svg))
}

func TestExtract_NoSVG(t *testing.T) {
	_, err := Extract(`<mjx-container></mjx-container>`)
	assert.ErrorIs(t, err, ErrNoSVG)
}

func TestStripNamespaces(t *testing.T) {
	out := StripNamespaces(sample)

	assert.NotContains(t, out, "xmlns")
	assert.Contains(t, out, `<svg width="1.2ex"`)
	assert.Contains(t, out, `xlink:href="#MJX-1-TEX-I-1D465"`)
}

func TestStandalone(t *testing.T) {
	out, err := Standalone(sample)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, "mjx-container")
}
