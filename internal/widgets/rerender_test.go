package widgets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/registry"
)

func (f *fixture) rerender(t *testing.T, prev *markup.Tree, src string, priors map[string]attr.Props) *markup.Tree {
	t.Helper()
	tree, err := f.engine.Rerender(context.Background(), prev, src, nil, priors)
	require.NoError(t, err)
	t.Cleanup(tree.Unmount)
	return tree
}

func (f *fixture) record(t *testing.T, fromName string) registry.ExportRecord {
	t.Helper()
	for _, rec := range f.reg.InstancesValues() {
		if rec.FromName == fromName {
			return rec
		}
	}
	t.Fatalf("no export record for %q", fromName)
	return registry.ExportRecord{}
}

func TestRerender_SelectionWinsOverMarkupValue(t *testing.T) {
	f := newFixture(t)
	src := `<Choices name="q" value="a"><Choice name="ca" value="a"/><Choice name="cb" value="b"/></Choices>`
	tree := f.render(t, src, nil, nil)
	require.True(t, f.kit.Select("q", "b", Add))

	f.rerender(t, tree, src, nil)

	group, ok := f.kit.Choices.Instance("q")
	require.True(t, ok)
	require.Equal(t, []string{"b"}, group.Value)

	cb, _ := f.kit.Items.Instance("cb")
	require.Equal(t, attr.True, cb.Checked)
	ca, _ := f.kit.Items.Instance("ca")
	require.Equal(t, attr.False, ca.Checked)
}

func TestRerender_SelectionWinsOverPriors(t *testing.T) {
	f := newFixture(t)
	src := `<View><Choices name="q"><Choice value="a"/><Choice value="b"/></Choices><TextArea name="notes"/></View>`
	priors := map[string]attr.Props{
		"q":     {"value": `["a"]`},
		"notes": {"value": "from last session"},
	}
	tree := f.render(t, src, nil, priors)
	require.True(t, f.kit.Select("q", "b", Add))
	require.True(t, f.kit.SetText("notes", "typed just now"))

	f.rerender(t, tree, src, priors)

	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"b"}, group.Value)
	notes, _ := f.kit.TextAreas.Instance("notes")
	require.Equal(t, "typed just now", notes.Value)
}

func TestRerender_RemovedAttributesDoNotLinger(t *testing.T) {
	f := newFixture(t)
	tree := f.render(t, `<Choices name="q" toName="old" layout="grid"><Choice value="a"/></Choices>`, nil, nil)
	require.True(t, f.kit.Select("q", "a", Add))

	f.rerender(t, tree, `<Choices name="q"><Choice value="a"/></Choices>`, nil)

	group, _ := f.kit.Choices.Instance("q")
	require.Empty(t, group.Layout)
	require.Empty(t, group.ToName)
	require.Equal(t, []string{"a"}, group.Value)

	rec := f.record(t, "q")
	require.Empty(t, rec.ToName)
	require.Equal(t, map[string][]string{"choices": {"a"}}, rec.Value)
}

func TestRerender_ModeChangeKeepsLastSelection(t *testing.T) {
	f := newFixture(t)
	tree := f.render(t, `<Choices name="q" choice="multiple"><Choice value="a"/><Choice value="b"/></Choices>`, nil, nil)
	f.kit.Select("q", "a", Add)
	f.kit.Select("q", "b", Add)

	f.rerender(t, tree, `<Choices name="q"><Choice value="a"/><Choice value="b"/></Choices>`, nil)

	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, Single, group.Mode)
	require.Equal(t, []string{"b"}, group.Value)
}

func TestRerender_ClearedPreselectionStaysCleared(t *testing.T) {
	f := newFixture(t)
	src := `<Choices name="q" choice="multiple"><Choice value="a" selected="true"/><Choice value="b"/></Choices>`
	tree := f.render(t, src, nil, nil)
	require.True(t, f.kit.Select("q", "a", Remove))

	f.rerender(t, tree, src, nil)

	group, _ := f.kit.Choices.Instance("q")
	require.Empty(t, group.Value)
}

func TestOverlayFromRecords_EmptyAnswerSuppressesPreselection(t *testing.T) {
	src := `<Choices name="q" choice="multiple"><Choice value="a" selected="true"/><Choice value="b"/></Choices>`

	first := newFixture(t)
	tree := first.render(t, src, nil, nil)
	require.True(t, first.kit.Select("q", "a", Remove))
	records := registry.SortedRecords(first.reg.InstancesValues())
	tree.Unmount()

	priors := OverlayFromRecords(records)
	require.Equal(t, attr.Props{"value": "[]"}, priors["q"])

	second := newFixture(t)
	second.render(t, src, nil, priors)

	group, ok := second.kit.Choices.Instance("q")
	require.True(t, ok)
	require.True(t, group.Seeded)
	require.Empty(t, group.Value)
}

func TestChoices_MissingVariableDoesNotSeed(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q" value="$previous"><Choice value="a" selected="true"/></Choices>`, nil, nil)

	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"a"}, group.Value)
}
