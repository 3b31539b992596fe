// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // hints, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Choice marks
	ChoiceSelectedColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	HotkeyColor         = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

	// Selection indicator style (">" prefix on the focused control)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusColor)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	// SubHeaderStyle is used for header sizes 3 and up.
	SubHeaderStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Underline(true)

	TextStyle        = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	HintStyle        = lipgloss.NewStyle().Foreground(TextMutedColor)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextPlaceholderColor).Italic(true)
	HotkeyStyle      = lipgloss.NewStyle().Foreground(HotkeyColor)
	CheckedStyle     = lipgloss.NewStyle().Foreground(ChoiceSelectedColor).Bold(true)

	RequiredStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)
