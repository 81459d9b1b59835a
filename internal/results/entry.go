package results

import (
	"fmt"
	"image"
	"strconv"

	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/query"
)

// Kind tags which lane an Entry came from.
type Kind int

const (
	KindPrefix Kind = iota
	KindMath
	KindApp
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindPrefix:
		return "prefix"
	case KindMath:
		return "math"
	case KindApp:
		return "app"
	case KindSearch:
		return "search"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one selectable row. Only the payload field matching Kind is set.
type Entry struct {
	Kind Kind
	Slot int
	Rect image.Rectangle

	Prefix  *query.PrefixMatch
	Math    float64
	App     *desktop.App
	AppName string // localized display name
	Search  query.WebSearch
}

// Label returns the text shown for the entry.
func (e Entry) Label() string {
	switch e.Kind {
	case KindPrefix:
		return `Search "` + e.Prefix.Query + `" on "` + e.Prefix.Name + `"...`
	case KindMath:
		return "= " + FormatNumber(e.Math)
	case KindApp:
		return e.AppName
	case KindSearch:
		return `Search "` + e.Search.Query + `" on the web...`
	}
	return ""
}

// Value returns the text copied to the clipboard for the entry: the number,
// the target URL, or the exec line.
func (e Entry) Value() string {
	switch e.Kind {
	case KindPrefix:
		return e.Prefix.URL
	case KindMath:
		return FormatNumber(e.Math)
	case KindApp:
		return e.App.Exec
	case KindSearch:
		return e.Search.URL
	}
	return ""
}

// FormatNumber prints v in its shortest exact form without an exponent.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
