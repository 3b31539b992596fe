package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zjrosen/htx/internal/log"
)

// Parse turns markup text into its top-level nodes. Whitespace-only text is
// dropped, other text is trimmed, and comments, processing instructions and
// directives are discarded. HTML named entities are accepted.
func Parse(src string) ([]*Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyMarkup
	}

	d := xml.NewDecoder(strings.NewReader(src))
	d.Strict = true
	d.Entity = xml.HTMLEntity

	var roots, stack []*Node
	for {
		line, col := d.InputPos()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(d, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: qualified(t.Name), Line: line, Column: col}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				roots = append(roots, n)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			if len(stack) == 0 {
				log.Warn(log.CatParse, "dropping text outside any element", "line", line)
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Text: text, Line: line, Column: col})
		}
	}

	if len(stack) > 0 {
		line, col := d.InputPos()
		return nil, &ParseError{Line: line, Column: col, Err: fmt.Errorf("element <%s> is never closed", stack[len(stack)-1].Tag)}
	}
	if len(roots) == 0 {
		return nil, ErrEmptyMarkup
	}

	log.Debug(log.CatParse, "parsed markup", "roots", len(roots))
	return roots, nil
}

func newParseError(d *xml.Decoder, err error) *ParseError {
	line, col := d.InputPos()
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		line = syn.Line
		err = errors.New(syn.Msg)
	}
	return &ParseError{Line: line, Column: col, Err: err}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
