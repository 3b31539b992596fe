package registry

import (
	"sort"
	"strings"

	"github.com/zjrosen/htx/internal/log"
)

// OriginManual marks answers entered by a person.
const OriginManual = "manual"

// ExportRecord is one control instance in the export snapshot.
type ExportRecord struct {
	Value    any    `json:"value"`
	ID       string `json:"id"`
	FromName string `json:"from_name"`
	ToName   string `json:"to_name"`
	Type     string `json:"type"`
	Origin   string `json:"origin"`
}

// Control is implemented by instance states that take part in export.
type Control interface {
	// ExportName is the control's name, used as from_name.
	ExportName() string
	// ExportTarget is the object the control annotates, used as to_name.
	ExportTarget() string
	// ExportValue is the formatted answer.
	ExportValue() any
}

// InstancesValues builds the export snapshot: one record per instance of every
// IsControl definition, keyed by a fresh record id.
func (r *Registry) InstancesValues() map[string]ExportRecord {
	values := make(map[string]ExportRecord)
	for _, def := range r.AllComponents() {
		if !def.Config.IsControl || def.Store == nil {
			continue
		}
		for _, inst := range def.Store.Snapshot() {
			rec, ok := r.record(def, inst)
			if !ok {
				continue
			}
			values[rec.ID] = rec
		}
	}
	log.Debug(log.CatExport, "export snapshot built", "records", len(values))
	return values
}

func (r *Registry) record(def *Definition, inst any) (ExportRecord, bool) {
	c, ok := inst.(Control)
	if !ok {
		log.Warn(log.CatExport, "control instance does not expose export fields", "tag", def.Tag)
		return ExportRecord{}, false
	}
	return ExportRecord{
		Value:    c.ExportValue(),
		ID:       r.newID(),
		FromName: c.ExportName(),
		ToName:   c.ExportTarget(),
		Type:     strings.ToLower(def.Tag),
		Origin:   OriginManual,
	}, true
}

// SortedRecords returns the records of values ordered by from_name, then type,
// then id.
func SortedRecords(values map[string]ExportRecord) []ExportRecord {
	out := make([]ExportRecord, 0, len(values))
	for _, rec := range values {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FromName != b.FromName {
			return a.FromName < b.FromName
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID < b.ID
	})
	return out
}
