package runtime

import (
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Marshal builds the interpreter expression for a render call: the mode's
// entry point applied to tex encoded as a JavaScript string literal.
func Marshal(tex string, mode Mode) string {
	var b strings.Builder
	entry := mode.entry()
	b.Grow(len(entry) + len(tex) + 4)
	b.WriteString(entry)
	b.WriteByte('(')
	writeLiteral(&b, tex)
	b.WriteByte(')')
	return b.String()
}

// Literal encodes s as a double-quoted JavaScript string literal that
// evaluates to s. Invalid UTF-8 bytes become U+FFFD.
func Literal(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	writeLiteral(&b, s)
	return b.String()
}

func writeLiteral(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			switch c {
			case '"', '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			default:
				if c < 0x20 || c == 0x7f {
					b.WriteString(`\u00`)
					b.WriteByte(hexDigits[c>>4])
					b.WriteByte(hexDigits[c&0xf])
				} else {
					b.WriteByte(c)
				}
			}
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\ufffd`)
		// Line and paragraph separators terminate lines in older parsers.
		case r == '\u2028':
			b.WriteString(`\u2028`)
		case r == '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
