package runtime

import (
	"fmt"

	"github.com/wippyai/texsvg/engine"
)

// Mode selects the typesetting style of a render call.
type Mode int

const (
	// Display renders block-level math with display="true".
	Display Mode = iota
	// Inline renders math for flowing text.
	Inline
)

func (m Mode) String() string {
	switch m {
	case Display:
		return "display"
	case Inline:
		return "inline"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "display" or "inline" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "display", "":
		return Display, nil
	case "inline":
		return Inline, nil
	}
	return Display, fmt.Errorf("unknown render mode %q", s)
}

// entry returns the bundle function that implements the mode.
func (m Mode) entry() string {
	if m == Inline {
		return engine.EntryInline
	}
	return engine.EntryDisplay
}

// Request is one render call: TeX source and the mode to typeset it in.
type Request struct {
	TeX  string
	Mode Mode
}
