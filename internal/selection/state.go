// Package selection holds the edit buffer, its cursor and the selected row.
package selection

// State is the editing state of the launcher. The cursor counts runes, not
// bytes. State never resolves queries itself; callers re-resolve after
// text changes and then call Clamp.
type State struct {
	text     []rune
	cursor   int
	selected int
}

// Text returns the current buffer.
func (s *State) Text() string { return string(s.text) }

// Cursor returns the cursor position in runes.
func (s *State) Cursor() int { return s.cursor }

// Selected returns the selected row index.
func (s *State) Selected() int { return s.selected }

// InsertAtCursor inserts r before the cursor and advances past it.
func (s *State) InsertAtCursor(r rune) string {
	s.text = append(s.text, 0)
	copy(s.text[s.cursor+1:], s.text[s.cursor:])
	s.text[s.cursor] = r
	s.cursor++
	return string(s.text)
}

// DeleteBeforeCursor removes the rune before the cursor. It reports false,
// leaving the buffer alone, when the buffer is empty or the cursor is at 0.
func (s *State) DeleteBeforeCursor() (string, bool) {
	if len(s.text) == 0 || s.cursor == 0 {
		return "", false
	}
	s.text = append(s.text[:s.cursor-1], s.text[s.cursor:]...)
	s.cursor--
	return string(s.text), true
}

// MoveCursor moves the cursor by delta runes, clamped to the buffer.
func (s *State) MoveCursor(delta int) {
	s.cursor = clamp(s.cursor+delta, 0, len(s.text))
}

func (s *State) CursorHome() { s.cursor = 0 }

func (s *State) CursorEnd() { s.cursor = len(s.text) }

// MoveSelection moves the selected row by delta within a list of count
// rows. It does nothing for an empty list.
func (s *State) MoveSelection(delta, count int) {
	if count <= 0 {
		s.selected = 0
		return
	}
	s.selected = clamp(s.selected+delta, 0, count-1)
}

// Clamp keeps the selection inside a list of count rows after the list
// changed size.
func (s *State) Clamp(count int) {
	s.MoveSelection(0, count)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
