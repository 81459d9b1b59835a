package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/sprint/internal/config"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Prompt       lipgloss.Style
	Input        lipgloss.Style
	Placeholder  lipgloss.Style
	Cursor       lipgloss.Style
	Separator    lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Empty        lipgloss.Style
	Status       lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "C-y")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "open", "copy")
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() Styles {
	return NewStyles(config.Default().Theme)
}

// NewStyles derives the terminal styles from the configured theme. The
// background color is only used behind the selected row; the terminal keeps
// its own background elsewhere.
func NewStyles(theme config.Theme) Styles {
	fg := lipgloss.Color(theme.Foreground.Hex())
	subtle := lipgloss.Color(theme.Separator.Hex())
	hover := lipgloss.Color(theme.SelectionHover.Hex())
	warn := lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#D7875F"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Prompt: lipgloss.NewStyle().
			Foreground(subtle),

		Input: lipgloss.NewStyle().
			Foreground(fg),

		Placeholder: lipgloss.NewStyle().
			Foreground(subtle),

		Cursor: lipgloss.NewStyle().
			Reverse(true),

		Separator: lipgloss.NewStyle().
			Foreground(subtle),

		Item: lipgloss.NewStyle().
			Foreground(fg),

		ItemSelected: lipgloss.NewStyle().
			Background(hover).
			Foreground(fg).
			Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Status: lipgloss.NewStyle().
			Foreground(warn),

		HintKey: lipgloss.NewStyle().
			Foreground(fg),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
