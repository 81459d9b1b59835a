package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sprint/internal/keys"
)

// KeyMap defines all key bindings for the terminal launcher. Keys that match
// no binding are typed into the query.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	Confirm   key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default emacs-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "ctrl+k", "shift+tab"),
			key.WithHelp("↑", "prev"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "ctrl+j", "tab"),
			key.WithHelp("↓", "next"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "cursor right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("C-a", "line start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
			key.WithHelp("C-e", "line end"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "close"),
		),
	}
}

// Events translates a terminal key message into launcher key events.
// A paste yields one event per rune.
func (k KeyMap) Events(msg tea.KeyMsg) []keys.Event {
	bound := []struct {
		binding key.Binding
		sym     keys.Sym
	}{
		{k.Quit, keys.SymEscape},
		{k.Confirm, keys.SymReturn},
		{k.Copy, keys.SymCopy},
		{k.Backspace, keys.SymBackSpace},
		{k.Up, keys.SymUp},
		{k.Down, keys.SymDown},
		{k.Left, keys.SymLeft},
		{k.Right, keys.SymRight},
		{k.Home, keys.SymHome},
		{k.End, keys.SymEnd},
	}
	for _, b := range bound {
		if key.Matches(msg, b.binding) {
			return []keys.Event{keys.Key(b.sym)}
		}
	}

	switch {
	case msg.Alt:
		return nil
	case msg.Type == tea.KeySpace:
		return []keys.Event{keys.Char(' ')}
	case msg.Type != tea.KeyRunes:
		return nil
	}

	evs := make([]keys.Event, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		if r < ' ' {
			continue
		}
		evs = append(evs, keys.Char(r))
	}
	return evs
}
