// Package svgdoc checks and trims the markup documents produced by the
// typesetting bundle.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoSVG is returned when a document contains no <svg> element.
var ErrNoSVG = errors.New("svgdoc: no <svg> element")

// Check verifies the output contract of a render call: the document is
// well-formed XML containing an <svg> element, and it references no
// external URL outside namespace declarations.
func Check(doc string) error {
	d := newDecoder(doc)
	found := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("svgdoc: malformed markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "svg" {
				found = true
			}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				if hasURL(a.Value) {
					return fmt.Errorf("svgdoc: external reference in %s attribute of <%s>: %q",
						attrName(a.Name), t.Name.Local, a.Value)
				}
			}
		case xml.CharData:
			if hasURL(string(t)) {
				return fmt.Errorf("svgdoc: external reference in text: %q", strings.TrimSpace(string(t)))
			}
		case xml.Comment:
			if hasURL(string(t)) {
				return fmt.Errorf("svgdoc: external reference in comment")
			}
		}
	}
	if !found {
		return ErrNoSVG
	}
	return nil
}

// Extract returns the outermost <svg>...</svg> element of doc, dropping any
// wrapper such as <mjx-container>. Nested <svg> elements are kept intact.
func Extract(doc string) (string, error) {
	d := newDecoder(doc)
	depth := 0
	start := int64(-1)
	for {
		off := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("svgdoc: malformed markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "svg" {
				continue
			}
			if depth == 0 {
				start = off
			}
			depth++
		case xml.EndElement:
			if t.Name.Local != "svg" || depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return doc[start:d.InputOffset()], nil
			}
		}
	}
	return "", ErrNoSVG
}

var namespaceAttr = regexp.MustCompile(`\s+xmlns(?::[A-Za-z_][\w.-]*)?\s*=\s*("[^"]*"|'[^']*')`)

// StripNamespaces removes namespace declaration attributes, for embedding
// the markup inline in an HTML document.
func StripNamespaces(doc string) string {
	return namespaceAttr.ReplaceAllString(doc, "")
}

// Standalone returns the <svg> element of doc prefixed with an XML
// declaration, suitable for serving as image/svg+xml.
func Standalone(doc string) (string, error) {
	svg, err := Extract(doc)
	if err != nil {
		return "", err
	}
	return xml.Header + svg + "\n", nil
}

func newDecoder(doc string) *xml.Decoder {
	d := xml.NewDecoder(strings.NewReader(doc))
	d.Strict = true
	d.Entity = xml.HTMLEntity
	return d
}

func isNamespaceDecl(n xml.Name) bool {
	return (n.Space == "" && n.Local == "xmlns") || n.Space == "xmlns"
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func hasURL(s string) bool {
	return strings.Contains(s, "http://") || strings.Contains(s, "https://")
}
