package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/clock"
	"github.com/datasync/keymarker/internal/flags"
	"github.com/datasync/keymarker/internal/keys"
	"github.com/datasync/keymarker/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	logPaneHeight = 8
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	status := m.renderStatus(width)
	footer := styles.HintStyle.Render(m.help.ShortHelpView(keys.ShortHelp(m.Prompting())))

	var bottom []string
	if m.Prompting() {
		bottom = append(bottom, m.input.View())
	}
	if toast := m.toaster.View(width); toast != "" {
		bottom = append(bottom, toast)
	}
	bottom = append(bottom, footer)
	bottomBlock := strings.Join(bottom, "\n")

	used := lipgloss.Height(status) + lipgloss.Height(bottomBlock)
	var logPane string
	if m.logs != nil {
		logPane = styles.Panel(strings.Join(m.logLines, "\n"), "Log", width, logPaneHeight, false)
		used += logPaneHeight
	}
	mainHeight := max(height-used, 3)

	var main string
	if m.showHist {
		main = styles.Panel(m.renderHistory(), "History (F1)", width, mainHeight, true)
	} else {
		main = styles.Panel(m.renderFeed(), "Markers", width, mainHeight, false)
	}

	parts := []string{status, main}
	if logPane != "" {
		parts = append(parts, logPane)
	}
	parts = append(parts, bottomBlock)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatus(width int) string {
	left := styles.TitleStyle.Render("keymarker")
	var right string
	if m.flags.Enabled(flags.FlagShowPending) && m.pending != "" {
		right = styles.PendingStyle.Render(m.pending)
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFeed() string {
	if len(m.lines) == 0 {
		return styles.HintStyle.Render("Type a key to send a marker. Esc quits.")
	}
	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.TimestampStyle.Render(l.at.Format("15:04:05")))
		b.WriteString("  ")
		b.WriteString(markerStyle(l.name).Render(l.name))
	}
	return b.String()
}

func markerStyle(name string) lipgloss.Style {
	switch {
	case strings.HasPrefix(name, chord.UndoMarker+"_"):
		return styles.MarkerUndoStyle
	case strings.Contains(name, "_"):
		return styles.MarkerLabelStyle
	default:
		return styles.MarkerStyle
	}
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return styles.HintStyle.Render("No markers yet")
	}
	now := m.clock.Now()
	var b strings.Builder
	for i, e := range m.history {
		if i > 0 {
			b.WriteString("\n")
		}
		name := styles.MarkerStyle.Render(e.Marker)
		if e.Undone {
			name = styles.MarkerUndoneStyle.Render(e.Marker) + styles.HintStyle.Render(" (undone)")
		}
		fmt.Fprintf(&b, "%2d. %s %s %s",
			e.Position,
			name,
			styles.HintStyle.Render(e.Annotation),
			styles.TimestampStyle.Render(clock.FormatRelative(e.At, now)),
		)
	}
	return b.String()
}
