package testutil

import "github.com/zjrosen/htx/internal/registry"

// recordData holds one export record to be saved.
type recordData struct {
	fromName string
	toName   string
	typ      string
	id       string
	origin   string
	value    any
}

// RecordOption configures a record during builder setup.
type RecordOption func(*recordData)

// ToName sets the object the record annotates.
func ToName(name string) RecordOption {
	return func(r *recordData) { r.toName = name }
}

// ID sets the record id. Defaults to "<from_name>-<type>".
func ID(id string) RecordOption {
	return func(r *recordData) { r.id = id }
}

// Origin sets the record origin. Defaults to manual.
func Origin(origin string) RecordOption {
	return func(r *recordData) { r.origin = origin }
}

// Choices builds a Choices record selecting values.
func Choices(fromName string, values []string, opts ...RecordOption) RecordOption {
	return record(fromName, "choices", map[string][]string{"choices": values}, opts)
}

// TextArea builds a TextArea record holding text.
func TextArea(fromName string, text []string, opts ...RecordOption) RecordOption {
	return record(fromName, "textarea", map[string][]string{"text": text}, opts)
}

// record returns an option that appends itself to a task. Records are
// expressed as options so WithTask reads as one call per task.
func record(fromName, typ string, value any, opts []RecordOption) RecordOption {
	return func(r *recordData) {
		*r = recordData{
			fromName: fromName,
			typ:      typ,
			id:       fromName + "-" + typ,
			origin:   registry.OriginManual,
			value:    value,
		}
		for _, opt := range opts {
			opt(r)
		}
	}
}

func (r recordData) export() registry.ExportRecord {
	return registry.ExportRecord{
		ID:       r.id,
		FromName: r.fromName,
		ToName:   r.toName,
		Type:     r.typ,
		Origin:   r.origin,
		Value:    r.value,
	}
}
