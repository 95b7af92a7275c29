// Package bundle loads the MathJax typesetting bundle evaluated by the engine.
//
// The bundle is an opaque JavaScript program that, once evaluated, defines two
// global functions:
//
//	render(tex)        display-mode TeX to an <mjx-container><svg>...</svg></mjx-container> string
//	renderInline(tex)  the same in inline mode
//
// The entry source lives in js/index.js and is built into a single script:
//
//	cd js && npm install mathjax-full && npx esbuild index.js --bundle --format=iife \
//	    --target=es2017 --outfile=mathjax_bundle.js
//
// Resolution order for Default: the TEXSVG_BUNDLE environment variable, then
// js/mathjax_bundle.js relative to the working directory.
package bundle
