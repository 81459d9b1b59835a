package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "↑", "Enter")
	Desc string // Short description (e.g., "next", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Selection movement
	Action []Hint // Enter, copy
	System []Hint // Esc
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

func hintFor(b key.Binding) Hint {
	h := b.Help()
	return Hint{Key: h.Key, Desc: h.Desc}
}

// contextualHints returns the hints for the current launcher state. Action
// hints only show while there is something to act on.
func (a App) contextualHints() HintSet {
	hs := HintSet{
		System: []Hint{hintFor(a.keys.Quit)},
	}
	if a.ctl.Ordered().Len() == 0 {
		return hs
	}
	hs.Nav = []Hint{hintFor(a.keys.Up), hintFor(a.keys.Down)}
	hs.Action = []Hint{hintFor(a.keys.Confirm), hintFor(a.keys.Copy)}
	return hs
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar: "↑:prev ↓:next Enter:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}
