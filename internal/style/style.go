// Package style converts inline CSS-like style strings into structured maps.
package style

import (
	"maps"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"github.com/gorilla/css/scanner"
)

// Style maps camelCased property names to their raw values,
// e.g. "margin-top: 2em" becomes {"marginTop": "2em"}.
type Style map[string]string

// Parse converts an inline style string. Declarations without a property
// name or a value are dropped; a later duplicate property wins.
func Parse(s string) Style {
	out := Style{}
	if strings.TrimSpace(s) == "" {
		return out
	}

	var (
		name      strings.Builder
		value     strings.Builder
		inValue   bool
		flushDecl = func() {
			prop := strings.TrimSpace(name.String())
			val := strings.TrimSpace(value.String())
			if prop != "" && val != "" {
				out[PropertyName(prop)] = val
			}
			name.Reset()
			value.Reset()
			inValue = false
		}
	)

	sc := scanner.New(s)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			flushDecl()
			return out
		case scanner.TokenComment:
			continue
		case scanner.TokenS:
			if inValue && value.Len() > 0 {
				value.WriteByte(' ')
			}
			continue
		case scanner.TokenChar:
			switch tok.Value {
			case ";":
				flushDecl()
				continue
			case ":":
				if !inValue {
					inValue = true
					continue
				}
			}
		}

		if inValue {
			value.WriteString(tok.Value)
		} else {
			name.WriteString(tok.Value)
		}
	}
}

// PropertyName converts a CSS property to its camelCased key. Vendor
// prefixes become leading capitals ("-webkit-transition" → "WebkitTransition")
// and custom properties ("--accent") are kept verbatim.
func PropertyName(prop string) string {
	prop = strings.ToLower(strings.TrimSpace(prop))
	switch {
	case strings.HasPrefix(prop, "--"):
		return prop
	case strings.HasPrefix(prop, "-"):
		return strcase.ToPascal(strings.TrimPrefix(prop, "-"))
	default:
		return strcase.ToCamel(prop)
	}
}

// Get returns the value of a camelCased property.
func (s Style) Get(prop string) string {
	return s[prop]
}

// Merge returns a copy of s with the properties of top written over it.
func (s Style) Merge(top Style) Style {
	out := make(Style, len(s)+len(top))
	maps.Copy(out, s)
	maps.Copy(out, top)
	return out
}

// Length parses a CSS length such as "20px", "2em" or "0" into its numeric
// part and unit. ok is false for keywords like "auto".
func Length(v string) (n float64, unit string, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", false
	}
	i := len(v)
	for i > 0 {
		c := v[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	n, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return n, v[i:], true
}

// Lengths splits a shorthand such as "10px 2em" and parses each part.
// Parts that are not lengths are skipped.
func Lengths(v string) []float64 {
	var out []float64
	for _, part := range strings.Fields(v) {
		if n, _, ok := Length(part); ok {
			out = append(out, n)
		}
	}
	return out
}
