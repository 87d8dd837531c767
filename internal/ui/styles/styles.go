// Package styles contains Lip Gloss style definitions for the console.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"} // hints, footers

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Marker kinds
	MarkerColor       = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	MarkerLabelColor  = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // Name_label markers
	MarkerUndoColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	MarkerUndoneColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}
	PendingKeyColor   = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

	// Toasts
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	MarkerStyle       = lipgloss.NewStyle().Foreground(MarkerColor)
	MarkerLabelStyle  = lipgloss.NewStyle().Foreground(MarkerLabelColor)
	MarkerUndoStyle   = lipgloss.NewStyle().Foreground(MarkerUndoColor)
	MarkerUndoneStyle = lipgloss.NewStyle().Foreground(MarkerUndoneColor).Strikethrough(true)

	TimestampStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	HintStyle      = lipgloss.NewStyle().Foreground(TextMutedColor)
	QuestionStyle  = lipgloss.NewStyle().Bold(true).Foreground(TextSecondaryColor)

	PendingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PendingKeyColor).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)
