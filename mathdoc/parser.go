package mathdoc

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type mathParser struct{}

var defaultMathParser = &mathParser{}

// NewMathParser returns an InlineParser for $...$ and $$...$$ spans.
//
// An inline opener must not be followed by whitespace, and its closer must
// not be preceded by whitespace or followed by a digit, so prices such as
// "$5 and $6" stay text. Display spans may contain surrounding whitespace
// and newlines. A backslash escapes the next character.
func NewMathParser() parser.InlineParser {
	return defaultMathParser
}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	opener := 0
	for ; opener < len(line) && line[opener] == '$'; opener++ {
	}
	if opener > 2 {
		return nil
	}
	display := opener == 2
	if !display && (opener >= len(line) || isSpace(line[opener])) {
		return nil
	}

	startLine, startPos := block.Position()
	block.Advance(opener)

	var tex []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(startLine, startPos)
			return nil
		}
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '\\':
				i++
			case '$':
				run := i
				for ; run < len(line) && line[run] == '$'; run++ {
				}
				if run-i == opener && closes(tex, line, i, run, display) {
					tex = append(tex, line[:i]...)
					block.Advance(run)
					return NewMath(tex, display)
				}
				i = run - 1
			}
		}
		if !display && isBlankLine(line) {
			block.SetPosition(startLine, startPos)
			return nil
		}
		tex = append(tex, line...)
		block.AdvanceLine()
	}
}

// closes reports whether the $ run at line[start:end] is a valid closer.
func closes(prev, line []byte, start, end int, display bool) bool {
	if display {
		return true
	}
	var before byte
	switch {
	case start > 0:
		before = line[start-1]
	case len(prev) > 0:
		before = prev[len(prev)-1]
	default:
		return false
	}
	if isSpace(before) {
		return false
	}
	return end >= len(line) || !isDigit(line[end])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isBlankLine(line []byte) bool {
	for _, c := range line {
		if !isSpace(c) {
			return false
		}
	}
	return true
}
