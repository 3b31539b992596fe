package widgets

import (
	"strings"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/registry"
)

// OverlayFromRecords turns export records back into prior values keyed by
// instance id, so a later render restores the answers.
func OverlayFromRecords(records []registry.ExportRecord) map[string]attr.Props {
	priors := make(map[string]attr.Props)
	for _, rec := range records {
		switch rec.Type {
		case strings.ToLower(KindChoices):
			priors[rec.FromName] = attr.Props{"value": attr.FormatList(listField(rec.Value, "choices"))}
		case strings.ToLower(KindTextArea):
			var text string
			if values := listField(rec.Value, "text"); len(values) > 0 {
				text = values[0]
			}
			priors[rec.FromName] = attr.Props{"value": text}
		default:
			log.Warn(log.CatExport, "no prior mapping for record type", "type", rec.Type, "from_name", rec.FromName)
		}
	}
	return priors
}

// listField reads key from a formatted value, either as built in process or
// as decoded from JSON.
func listField(value any, key string) []string {
	switch v := value.(type) {
	case map[string][]string:
		return v[key]
	case map[string]any:
		switch items := v[key].(type) {
		case []string:
			return items
		case []any:
			out := make([]string, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case string:
			return []string{items}
		}
	}
	return nil
}
