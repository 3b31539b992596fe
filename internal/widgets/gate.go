package widgets

import (
	"slices"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/store"
)

// Visibility conditions.
const (
	VisibleWhenChoiceSelected   = "choice-selected"
	VisibleWhenChoiceUnselected = "choice-unselected"
	VisibleWhenRegionSelected   = "region-selected"
	VisibleWhenNoRegionSelected = "no-region-selected"
)

// Gate makes an instance's visibility depend on a choice group.
type Gate struct {
	VisibleWhen     string
	WhenTagName     string
	WhenChoiceValue []string
}

var gateAttrs = []string{"visibleWhen", "whenTagName", "whenChoiceValue", "whenLabelValue"}

func gateFromProps(p attr.Props) Gate {
	return Gate{
		VisibleWhen:     p.Get("visibleWhen"),
		WhenTagName:     p.Get("whenTagName"),
		WhenChoiceValue: p.List("whenChoiceValue"),
	}
}

// watchesChoices reports whether the gate depends on a choice group.
func (g Gate) watchesChoices() bool {
	switch g.VisibleWhen {
	case VisibleWhenChoiceSelected, VisibleWhenChoiceUnselected:
		return g.WhenTagName != ""
	}
	return false
}

// Allows evaluates the gate against the group's selection. Without
// whenChoiceValue any selection counts. Region conditions have no region
// source and always pass.
func (g Gate) Allows(selected []string) bool {
	hit := len(selected) > 0
	if len(g.WhenChoiceValue) > 0 {
		hit = slices.ContainsFunc(selected, func(v string) bool {
			return slices.Contains(g.WhenChoiceValue, v)
		})
	}
	switch g.VisibleWhen {
	case VisibleWhenChoiceSelected:
		return hit
	case VisibleWhenChoiceUnselected:
		return !hit
	}
	return true
}

// bindGate subscribes apply to the group named by g and calls it once with the
// current state. It returns the unsubscribe function.
func bindGate(g Gate, groups *store.Store[ChoicesState], apply func(visible bool)) func() {
	if !g.watchesChoices() {
		return func() {}
	}
	eval := func(group ChoicesState, ok bool) {
		var selected []string
		if ok {
			selected = group.Value
		}
		apply(g.Allows(selected))
	}
	unsubscribe := groups.Subscribe(g.WhenTagName, eval)
	group, ok := groups.Instance(g.WhenTagName)
	eval(group, ok)
	return unsubscribe
}
