// Package keys defines the key events the launcher reacts to, independent
// of where they come from.
package keys

import (
	"fmt"
	"strings"
)

// Sym identifies a key. SymChar covers every printable key; the character
// itself is carried in Event.Char.
type Sym int

const (
	SymNone Sym = iota
	SymChar
	SymEscape
	SymReturn
	SymBackSpace
	SymUp
	SymDown
	SymLeft
	SymRight
	SymHome
	SymEnd
	SymCopy // copy the selected entry's value
)

var symNames = map[Sym]string{
	SymNone:      "none",
	SymChar:      "char",
	SymEscape:    "escape",
	SymReturn:    "return",
	SymBackSpace: "backspace",
	SymUp:        "up",
	SymDown:      "down",
	SymLeft:      "left",
	SymRight:     "right",
	SymHome:      "home",
	SymEnd:       "end",
	SymCopy:      "copy",
}

func (s Sym) String() string {
	if n, ok := symNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Sym(%d)", int(s))
}

// ParseSym parses a key name as produced by Sym.String. Matching is
// case-insensitive; "enter" and "esc" are accepted as aliases.
func ParseSym(name string) (Sym, error) {
	name = strings.ToLower(name)
	switch name {
	case "enter":
		return SymReturn, nil
	case "esc":
		return SymEscape, nil
	}
	for s, n := range symNames {
		if n == name && s != SymNone {
			return s, nil
		}
	}
	return SymNone, fmt.Errorf("unknown key %q", name)
}

// Event is a key press.
type Event struct {
	Sym  Sym
	Char rune // set when Sym is SymChar
}

// Char returns the press event for a printable character.
func Char(r rune) Event {
	return Event{Sym: SymChar, Char: r}
}

// Key returns the press event for a non-printable key.
func Key(s Sym) Event {
	return Event{Sym: s}
}

// Same reports whether e and o are the same physical key.
func (e Event) Same(o Event) bool {
	return e.Sym == o.Sym && (e.Sym != SymChar || e.Char == o.Char)
}

func (e Event) String() string {
	if e.Sym == SymChar {
		return fmt.Sprintf("char(%q)", e.Char)
	}
	return e.Sym.String()
}
