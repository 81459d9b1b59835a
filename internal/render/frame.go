// Package render turns launcher state into an ordered list of draw commands
// for a pixel surface. Fonts and rasterization stay with the surface.
package render

import (
	"image"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/results"
)

const (
	// Placeholder is shown in the input box while it is empty.
	Placeholder = "Search..."
	// NoResults is shown instead of a highlight when the list is empty.
	NoResults = `¯\_(._.)_/¯`

	DefaultWidth  = 1024
	DefaultHeight = 512

	inputSize = 18
	entrySize = 16
)

var (
	headerRect    = image.Rect(0, 0, 1024, 48)
	separatorRect = image.Rect(0, 49, 1024, 50)
	inputRect     = image.Rect(16, 8, 16+996, 8+32)
	noResultsRect = image.Rect(462, 240, 462+100, 240+32)
	white         = config.Color{R: 255, G: 255, B: 255, A: 255}
)

// Kind identifies a draw command.
type Kind string

const (
	KindFill   Kind = "fill"
	KindText   Kind = "text"
	KindCursor Kind = "cursor" // 1px bar placed after Cursor runes of the input text
)

// Rect is a pixel rectangle.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func fromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Command is one draw step. Fields not used by Kind are zero.
type Command struct {
	Kind   Kind    `json:"kind"`
	Rect   Rect    `json:"rect"`
	Color  uint32  `json:"argb"`
	Text   string  `json:"text,omitempty"`
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Cursor int     `json:"cursor,omitempty"`
}

// Frame is everything needed to paint one frame, in paint order.
type Frame struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Commands []Command `json:"commands"`
}

// FrameParams holds the state BuildFrame draws.
type FrameParams struct {
	Width, Height int
	Font          string
	Theme         config.Theme
	Layout        results.Layout
	Query         string
	Cursor        int
	Entries       results.Ordered
	Selected      int
	Status        string
}

// BuildFrame lays out a frame: background, header band, input text and
// cursor, then either the selection highlight or the no-results label, the
// separator, the entry labels, and finally the status line.
func BuildFrame(p FrameParams) Frame {
	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}

	f := Frame{Width: p.Width, Height: p.Height}
	fill := func(r image.Rectangle, c config.Color) {
		f.Commands = append(f.Commands, Command{Kind: KindFill, Rect: fromImage(r), Color: c.ARGB()})
	}
	text := func(r image.Rectangle, s string, size float64) {
		f.Commands = append(f.Commands, Command{Kind: KindText, Rect: fromImage(r), Color: white.ARGB(), Text: s, Font: p.Font, Size: size})
	}

	fill(image.Rect(0, 0, p.Width, p.Height), p.Theme.Background)
	fill(headerRect, p.Theme.Foreground)

	if p.Query == "" {
		text(inputRect, Placeholder, inputSize)
	} else {
		text(inputRect, p.Query, inputSize)
	}
	f.Commands = append(f.Commands, Command{
		Kind:   KindCursor,
		Rect:   fromImage(image.Rect(inputRect.Min.X, inputRect.Min.Y, inputRect.Min.X+1, inputRect.Max.Y)),
		Color:  white.ARGB(),
		Cursor: p.Cursor,
	})

	if len(p.Entries) == 0 {
		text(noResultsRect, NoResults, inputSize)
	} else {
		y := p.Layout.HeaderHeight + p.Selected*p.Layout.RowHeight
		fill(image.Rect(0, y, p.Layout.Width, y+p.Layout.RowHeight), p.Theme.SelectionHover)
	}
	fill(separatorRect, p.Theme.Separator)

	for _, e := range p.Entries {
		text(e.Rect, e.Label(), entrySize)
	}

	if p.Status != "" {
		row := p.Layout.RowHeight
		text(image.Rect(p.Layout.PadX, p.Height-row, p.Width, p.Height), p.Status, entrySize)
	}
	return f
}
