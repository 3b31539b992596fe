package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	h := newHarness(t, "View", "Text", "Choices", "Choice")

	tests := []struct {
		name      string
		src       string
		wantValid bool
		wantTags  []string
		wantCount int
	}{
		{
			name:      "registered tags and native html",
			src:       `<View><Text name="t"/><a href="x">link</a></View>`,
			wantValid: true,
			wantCount: 3,
		},
		{
			name:      "unknown component",
			src:       "<View>\n  <Chioce value=\"a\"/>\n</View>",
			wantValid: false,
			wantTags:  []string{"Chioce"},
			wantCount: 2,
		},
		{
			name:      "duplicate name is a warning",
			src:       `<View><Text name="t"/><Text name="t"/></View>`,
			wantValid: true,
			wantTags:  []string{"Text"},
			wantCount: 3,
		},
		{
			name:      "same name on different tags",
			src:       `<View><Choices name="q"/><Text name="q"/></View>`,
			wantValid: true,
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := h.engine.Validate(context.Background(), tt.src)
			require.Equal(t, tt.wantValid, report.Valid)
			require.Equal(t, tt.wantCount, report.Elements)

			var tags []string
			for _, issue := range report.Issues {
				tags = append(tags, issue.Tag)
			}
			require.Equal(t, tt.wantTags, tags)
		})
	}
	require.Empty(t, h.mounts)
}

func TestValidate_UnknownComponentPosition(t *testing.T) {
	h := newHarness(t, "View")

	report := h.engine.Validate(context.Background(), "<View>\n  <Chioce value=\"a\"/>\n</View>")
	require.Len(t, report.Issues, 1)
	require.Equal(t, SeverityError, report.Issues[0].Severity)
	require.Equal(t, 2, report.Issues[0].Line)
	require.Equal(t, 3, report.Issues[0].Column)
}

func TestValidate_ParseError(t *testing.T) {
	h := newHarness(t, "View")

	report := h.engine.Validate(context.Background(), "<View>\n<Text>\n</View>")
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	require.Equal(t, 3, report.Issues[0].Line)
	require.Zero(t, report.Elements)
}
