package markup

import (
	"strings"

	"github.com/zjrosen/htx/internal/attr"
)

// Sigil marks an attribute value as a task data reference.
const Sigil = "$"

// Substitute returns props with every "$key" value replaced by data[key], or
// "" when data has no such key. Expansion is single-level.
func Substitute(props attr.Props, data map[string]string) attr.Props {
	out := make(attr.Props, len(props))
	for k, v := range props {
		if key, ok := strings.CutPrefix(v, Sigil); ok {
			v = data[key]
		}
		out[k] = v
	}
	return out
}
