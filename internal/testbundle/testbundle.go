// Package testbundle provides a small deterministic stand-in for the MathJax
// bundle so unit tests run without the real typesetting engine.
//
// The stand-in honours the render/renderInline contract and reserves a few
// inputs for exercising failure paths:
//
//	\void    returns undefined
//	\object  returns {}
//	\number  returns 42
//	\deep    recurses without bound
//	\hog     allocates without bound
//
// Unbalanced braces throw, mirroring MathJax's own parse errors.
package testbundle

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/texsvg/bundle"
)

// Name is the stand-in bundle's file name.
const Name = "testbundle.js"

// Reserved inputs.
const (
	Void   = `\void`
	Object = `\object`
	Number = `\number`
	Deep   = `\deep`
	Hog    = `\hog`
)

// Code is the stand-in bundle program.
const Code = `(function (g) {
  "use strict";

  function escapeXML(s) {
    return s.replace(/&/g, "&amp;").replace(/</g, "&lt;")
      .replace(/>/g, "&gt;").replace(/"/g, "&quot;");
  }

  function checkBraces(tex) {
    var depth = 0;
    for (var i = 0; i < tex.length; i++) {
      var c = tex.charAt(i);
      if (c === "\\") {
        i++;
      } else if (c === "{") {
        depth++;
      } else if (c === "}") {
        depth--;
        if (depth < 0) {
          throw new Error("Extra close brace or missing open brace");
        }
      }
    }
    if (depth > 0) {
      throw new Error("Missing close brace");
    }
  }

  function deep(n) {
    return deep(n + 1) + 1;
  }

  function hog() {
    var keep = [];
    for (;;) {
      keep.push(new Array(65536).fill(keep.length));
    }
  }

  function typeset(tex, display) {
    switch (tex) {
    case "\\void":
      return undefined;
    case "\\object":
      return {};
    case "\\number":
      return 42;
    case "\\deep":
      return deep(0);
    case "\\hog":
      return hog();
    }
    checkBraces(tex);

    var width = 500 * (tex.length + 1);
    var label = escapeXML(tex);
    var svg = '<svg xmlns="http://www.w3.org/2000/svg"' +
      ' xmlns:xlink="http://www.w3.org/1999/xlink"' +
      ' width="' + (width / 1000).toFixed(3) + 'ex" height="2.262ex"' +
      ' role="img" focusable="false"' +
      ' viewBox="0 -750 ' + width + ' 1000"' +
      ' aria-label="' + label + '">' +
      '<g stroke="currentColor" fill="currentColor" stroke-width="0">' +
      '<text x="0" y="0">' + label + '</text></g></svg>';
    var attrs = display ? ' display="true"' : '';
    return '<mjx-container class="MathJax" jax="SVG"' + attrs + '>' + svg + '</mjx-container>';
  }

  function entry(display) {
    return function (tex) {
      try {
        return typeset(tex, display);
      } catch (e) {
        // The interpreter throws null when it cannot allocate an error object.
        if (e === null) {
          throw e;
        }
        throw new Error("MathJax render error: " + (e.message || String(e)));
      }
    };
  }

  g.render = entry(true);
  g.renderInline = entry(false);
})(globalThis);
`

// Source returns the stand-in bundle.
func Source() bundle.Source {
	return bundle.FromString(Name, Code)
}

// WriteFile writes the stand-in bundle into dir and returns its path.
func WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, Name)
	if err := os.WriteFile(path, []byte(Code), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Broken bundles for load failure tests.
var (
	// MissingInline defines only the display entry point.
	MissingInline = bundle.FromString("missing_inline.js",
		`globalThis.render = function (tex) { return "<svg></svg>"; };`)

	// ThrowsOnLoad raises while the bundle evaluates.
	ThrowsOnLoad = bundle.FromString("throws.js",
		`throw new Error("bundle exploded");`)

	// SyntaxError does not compile.
	SyntaxError = bundle.FromString("syntax.js",
		`globalThis.render = function (tex { return tex; };`)

	// NotFunctions defines the entry points as non-callable values.
	NotFunctions = bundle.FromString("not_functions.js",
		`globalThis.render = "render"; globalThis.renderInline = 1;`)
)

// TeXSpecials are the characters TeX reserves for control sequences,
// grouping, math shifts, alignment, parameters, scripts, comments and ties.
const TeXSpecials = `\{}$&#^_%~`

// PlainASCII returns n random printable ASCII characters drawn from rng,
// excluding TeXSpecials.
func PlainASCII(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		c := byte(0x20 + rng.IntN(0x7f-0x20))
		if strings.IndexByte(TeXSpecials, c) >= 0 {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
