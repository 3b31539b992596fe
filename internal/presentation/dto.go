package presentation

import (
	"time"

	"github.com/zjrosen/htx/internal/answers"
	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/registry"
)

// ComponentDTO represents a registered component for presentation
type ComponentDTO struct {
	Tag          string            `json:"tag"`
	Kind         string            `json:"kind,omitempty"`
	IsControl    bool              `json:"is_control"`
	IsObject     bool              `json:"is_object"`
	AutoInit     bool              `json:"auto_init"`
	DefaultProps map[string]string `json:"default_props,omitempty"`
	Region       string            `json:"region,omitempty"`
	Instances    int               `json:"instances"`
}

// FromDefinition converts a registry definition to a DTO.
func FromDefinition(def *registry.Definition) ComponentDTO {
	dto := ComponentDTO{
		Tag:          def.Tag,
		IsControl:    def.Config.IsControl,
		IsObject:     def.Config.IsObject,
		AutoInit:     def.Config.AutoInit,
		DefaultProps: def.Config.DefaultProps,
	}
	if def.Store != nil {
		dto.Kind = def.Store.Kind()
		dto.Instances = len(def.Store.InstanceKeys())
	}
	if def.Region != nil {
		dto.Region = def.Region.Name
	}
	return dto
}

// FromRegistry converts every definition in registration order.
func FromRegistry(reg *registry.Registry) []ComponentDTO {
	dtos := make([]ComponentDTO, 0)
	for _, tag := range reg.ComponentTags() {
		if def, ok := reg.Component(tag); ok {
			dtos = append(dtos, FromDefinition(def))
		}
	}
	return dtos
}

// ElementDTO represents one rendered element.
type ElementDTO struct {
	Tag      string            `json:"tag,omitempty"`
	ID       string            `json:"id,omitempty"`
	ParentID string            `json:"parent_id,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Text     string            `json:"text,omitempty"`
	Native   bool              `json:"native,omitempty"`
	Children []ElementDTO      `json:"children,omitempty"`
}

// FromElement converts a rendered element and its subtree.
func FromElement(el *markup.Element) ElementDTO {
	dto := ElementDTO{
		Tag:      el.Tag,
		ID:       el.ID,
		ParentID: el.ParentID,
		Props:    el.Props,
		Text:     el.Text,
		Native:   el.Native,
	}
	for _, child := range el.Children {
		dto.Children = append(dto.Children, FromElement(child))
	}
	return dto
}

// RenderDTO is the machine-readable result of a render.
type RenderDTO struct {
	Elements []ElementDTO            `json:"elements"`
	Records  []registry.ExportRecord `json:"records"`
}

// FromRender converts a rendered tree and its export snapshot.
func FromRender(tree *markup.Tree, records map[string]registry.ExportRecord) RenderDTO {
	dto := RenderDTO{
		Elements: make([]ElementDTO, 0),
		Records:  registry.SortedRecords(records),
	}
	if tree != nil {
		for _, root := range tree.Roots {
			dto.Elements = append(dto.Elements, FromElement(root))
		}
	}
	return dto
}

// TaskDTO is a saved answer snapshot summary.
type TaskDTO struct {
	ID      string    `json:"id"`
	Records int       `json:"records"`
	SavedAt time.Time `json:"saved_at"`
}

// FromTasks converts stored task summaries.
func FromTasks(tasks []answers.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskDTO{ID: t.ID, Records: t.Records, SavedAt: t.SavedAt.UTC()})
	}
	return out
}
