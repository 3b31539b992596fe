// Package attr holds markup attribute values.
//
// Markup attributes are always strings. Widgets convert them at their own
// boundary: boolean-like values through ParseFlag, list values through
// ParseList, numbers through Int.
package attr

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Props is a bag of string attributes keyed by attribute name.
type Props map[string]string

// Get returns the attribute value or "" when absent.
func (p Props) Get(name string) string {
	return p[name]
}

// Lookup returns the attribute value and whether it was present.
func (p Props) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Clone returns a copy that can be mutated independently.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	return maps.Clone(p)
}

// Overlay returns a copy of p with every key of top written over it.
func (p Props) Overlay(top Props) Props {
	out := p.Clone()
	maps.Copy(out, top)
	return out
}

// Without returns a copy of p minus the named keys.
func (p Props) Without(names ...string) Props {
	out := make(Props, len(p))
	for k, v := range p {
		if !slices.Contains(names, k) {
			out[k] = v
		}
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (p Props) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Int parses the named attribute as an integer, returning def when it is
// absent or malformed.
func (p Props) Int(name string, def int) int {
	v, ok := p[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Flag parses the named attribute with ParseFlag.
func (p Props) Flag(name string) Flag {
	return ParseFlag(p[name])
}

// List parses the named attribute with ParseList.
func (p Props) List(name string) []string {
	return ParseList(p[name])
}

// ParseList reads a list attribute. A value starting with '[' is decoded as a
// JSON string array; anything else is split on commas. Blank entries are
// dropped.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatList encodes values so that ParseList returns them unchanged.
func FormatList(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}
