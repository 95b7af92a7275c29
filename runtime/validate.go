package runtime

import (
	"math/big"

	"modernc.org/quickjs"

	"github.com/wippyai/texsvg/errors"
)

// validateResult accepts only primitive string results. Anything else is
// reported with its JavaScript type name.
func validateResult(v any, tex string) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.TypeMismatch(tex, jsTypeOf(v))
}

// jsTypeOf names the JavaScript type behind an interpreter result. Objects,
// arrays and functions all report "object"; null reports "null".
func jsTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case quickjs.Undefined:
		return "undefined"
	case string:
		return "string"
	case int, float64:
		return "number"
	case bool:
		return "boolean"
	case *big.Int:
		return "bigint"
	case *quickjs.Object:
		return "object"
	default:
		return "unsupported"
	}
}
