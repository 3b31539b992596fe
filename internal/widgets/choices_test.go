package widgets

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/htx/internal/attr"
)

func TestSelect_SingleVsMultiple(t *testing.T) {
	tests := []struct {
		mode string
		want []string
	}{
		{mode: "single", want: []string{"b"}},
		{mode: "multiple", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f := newFixture(t)
			f.render(t, `<Choices name="q" choice="`+tt.mode+`"><Choice value="a"/><Choice value="b"/></Choices>`, nil, nil)

			require.True(t, f.kit.Select("q", "a", Add))
			require.True(t, f.kit.Select("q", "b", Add))

			group, ok := f.kit.Choices.Instance("q")
			require.True(t, ok)
			require.Equal(t, tt.want, group.Value)
		})
	}
}

func TestSelect_ToggleAndRemove(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q" choice="multiple"/>`, nil, nil)

	f.kit.Select("q", "a", Toggle)
	f.kit.Select("q", "b", Toggle)
	f.kit.Select("q", "a", Toggle)
	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"b"}, group.Value)

	f.kit.Select("q", "b", Remove)
	f.kit.Select("q", "zzz", Remove)
	group, _ = f.kit.Choices.Instance("q")
	require.Empty(t, group.Value)
}

func TestSelect_UnknownGroupIsNoop(t *testing.T) {
	f := newFixture(t)

	require.False(t, f.kit.Select("never-registered", "a", Add))
	require.False(t, f.kit.SetChoices("never-registered", []string{"a"}))
	require.Zero(t, f.kit.Choices.Len())
}

func TestSetChoices_SingleKeepsLast(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q"/>`, nil, nil)

	require.True(t, f.kit.SetChoices("q", []string{"a", "b", "c"}))
	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"c"}, group.Value)
}

func TestChoice_CheckedFollowsGroup(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q"><Choice name="yes" value="Yes"/><Choice name="no" value="No"/></Choices>`, nil, nil)

	f.kit.Select("q", "Yes", Add)
	yes, _ := f.kit.Items.Instance("yes")
	no, _ := f.kit.Items.Instance("no")
	require.Equal(t, attr.True, yes.Checked)
	require.Equal(t, attr.False, no.Checked)

	f.kit.Select("q", "No", Add)
	yes, _ = f.kit.Items.Instance("yes")
	no, _ = f.kit.Items.Instance("no")
	require.Equal(t, attr.False, yes.Checked)
	require.Equal(t, attr.True, no.Checked)
}

func TestChoice_UnmountStopsFollowing(t *testing.T) {
	f := newFixture(t)
	tree := f.render(t, `<Choices name="q"><Choice name="yes" value="Yes"/></Choices>`, nil, nil)

	tree.Unmount()
	require.Zero(t, f.kit.Choices.SubscriberCount("q"))
	require.Zero(t, f.kit.Items.Len())
	require.False(t, f.kit.Select("q", "Yes", Add))
}

func TestChoice_LabelFromText(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q"><Choice name="c">Not Sure</Choice><Choice name="h" value="v" html="&lt;b&gt;V&lt;/b&gt;"/></Choices>`, nil, nil)

	c, _ := f.kit.Items.Instance("c")
	require.Equal(t, "Not Sure", c.Value)
	require.Equal(t, "Not Sure", c.Label())
	h, _ := f.kit.Items.Instance("h")
	require.Equal(t, "<b>V</b>", h.Label())
}

func TestChoice_Preselected(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q" choice="multiple"><Choice value="a" selected="true"/><Choice value="b"/><Choice value="c" selected="yes"/></Choices>`, nil, nil)

	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"a", "c"}, group.Value)
}

func TestChoice_PreselectionYieldsToPriors(t *testing.T) {
	f := newFixture(t)
	priors := map[string]attr.Props{"q": {"value": `["b"]`}}
	f.render(t, `<Choices name="q"><Choice value="a" selected="true"/><Choice value="b"/></Choices>`, nil, priors)

	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, []string{"b"}, group.Value)
}

func TestChoice_MissingParent(t *testing.T) {
	f := newFixture(t)

	require.NotPanics(t, func() {
		f.render(t, `<View><Choice name="orphan" value="a" selected="true"/></View>`, nil, nil)
	})
	orphan, ok := f.kit.Items.Instance("orphan")
	require.True(t, ok)
	require.Equal(t, attr.False, orphan.Checked)
	require.False(t, f.kit.ToggleChoice("orphan"))
}

func TestChoice_Alias(t *testing.T) {
	f := newFixture(t)
	f.render(t, `<Choices name="q"><Choice value="Not Sure" alias="unsure"/></Choices>`, nil, nil)

	f.kit.Select("q", "Not Sure", Add)
	group, _ := f.kit.Choices.Instance("q")
	require.Equal(t, map[string][]string{"choices": {"unsure"}}, group.ExportValue())
	require.True(t, group.Selected("Not Sure"))
}

func TestApplySelection_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom([]SelectionMode{Single, Multiple}).Draw(t, "mode")
		steps := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d"})).Draw(t, "steps")
		actions := rapid.SliceOfN(rapid.SampledFrom([]Action{Add, Remove, Toggle}), len(steps), len(steps)).Draw(t, "actions")

		var value []string
		for i, v := range steps {
			value = applySelection(value, mode, v, actions[i])

			if mode == Single {
				require.LessOrEqual(t, len(value), 1)
			}
			seen := slices.Clone(value)
			slices.Sort(seen)
			require.Equal(t, len(seen), len(slices.Compact(seen)))

			switch actions[i] {
			case Add:
				require.Contains(t, value, v)
			case Remove:
				require.NotContains(t, value, v)
			}
		}
	})
}
