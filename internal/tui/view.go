package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/sprint/internal/render"
	"github.com/nikbrunner/sprint/internal/results"
	"github.com/nikbrunner/sprint/internal/tui/layout"
)

const (
	promptMarker   = "> "
	selectedMarker = "▌ "
	rowMarker      = "  "
)

// View implements tea.Model.
func (a App) View() string {
	if a.ctl.Closing() {
		return ""
	}

	rowWidth := layout.CalculateRowWidth(a.width, a.layout.Frame)

	sections := []string{
		a.renderInput(rowWidth),
		a.styles.Separator.Render(strings.Repeat("─", rowWidth)),
		a.renderList(rowWidth),
	}
	if status := a.ctl.Status(); status != "" {
		line, _ := layout.TruncateText(status, rowWidth, a.layout.Text)
		sections = append(sections, a.styles.Status.Render(line))
	}
	sections = append(sections, layout.TruncateANSIAware(a.renderHints(a.contextualHints()), rowWidth, a.layout.Text))

	return a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderInput draws the query with a block cursor, or the placeholder when
// the query is empty.
func (a App) renderInput(width int) string {
	prompt := a.styles.Prompt.Render(promptMarker)

	query := []rune(a.ctl.Query())
	if len(query) == 0 {
		return prompt + a.styles.Cursor.Render(" ") + a.styles.Placeholder.Render(render.Placeholder)
	}

	cursor := a.ctl.Cursor()
	under := " "
	after := ""
	if cursor < len(query) {
		under = string(query[cursor])
		after = string(query[cursor+1:])
	}

	line := a.styles.Input.Render(string(query[:cursor])) +
		a.styles.Cursor.Render(under) +
		a.styles.Input.Render(after)
	return prompt + layout.TruncateANSIAware(line, width-len(promptMarker), a.layout.Text)
}

// renderList draws the visible window of the ordered results, scrolled so
// the selected row stays in view.
func (a App) renderList(width int) string {
	entries := a.ctl.Ordered()
	if entries.Len() == 0 {
		return a.styles.Empty.Render(rowMarker + render.NoResults)
	}

	height := layout.CalculateListHeight(a.height, a.layout.Frame)
	selected := a.ctl.Selected()
	offset := layout.CalculateViewportOffset(selected, entries.Len(), height)
	end := offset + height
	if end > entries.Len() {
		end = entries.Len()
	}

	rows := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, a.renderRow(entries[i], i == selected, width))
	}
	return strings.Join(rows, "\n")
}

func (a App) renderRow(e results.Entry, selected bool, width int) string {
	marker := rowMarker
	style := a.styles.Item
	if selected {
		marker = selectedMarker
		style = a.styles.ItemSelected
	}

	suffix := ""
	if e.Kind != results.KindApp {
		suffix = " [" + e.Kind.String() + "]"
	}

	text, _ := layout.TruncateWithPrefixSuffix(e.Label(), width, marker, suffix, a.layout.Text)
	return style.Render(text)
}
