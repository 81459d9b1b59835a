// Package results flattens a query.ResultSet into the positioned list the
// launcher shows and selects from.
package results

import (
	"image"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/logging"
	"github.com/nikbrunner/sprint/internal/query"
)

// DefaultAppLimit caps the application lane.
const DefaultAppLimit = 50

// Lane names accepted in result_order.
const (
	LanePrefixes = "prefixes"
	LaneMath     = "math"
	LaneDesktop  = "desktop"
	LaneApps     = "apps"
	LaneSearch   = "search"
)

// Layout positions rows below the header band.
type Layout struct {
	PadX         int
	HeaderHeight int
	RowHeight    int
	Width        int
}

// DefaultLayout matches a 1024px wide launcher with a 48px input band and a
// 1px separator.
func DefaultLayout() Layout {
	return Layout{PadX: 16, HeaderHeight: 49, RowHeight: 30, Width: 1024}
}

// SlotRect returns the rect of row slot.
func (l Layout) SlotRect(slot int) image.Rectangle {
	y := l.HeaderHeight + slot*l.RowHeight
	return image.Rect(l.PadX, y, l.PadX+l.Width, y+l.RowHeight)
}

// OrderParams holds parameters for Order.
type OrderParams struct {
	Lanes    []string
	AppLimit int // <= 0 means DefaultAppLimit
	Layout   Layout
	// AppName resolves display names. Nil uses the untranslated name.
	AppName func(*desktop.App) string
}

// Ordered is the flattened, positioned result list.
type Ordered []Entry

// Len returns the number of entries.
func (o Ordered) Len() int { return len(o) }

// warnedLanes remembers unknown lane names that were already reported.
var warnedLanes sync.Map

// Order flattens rs in lane order. The output depends only on its inputs.
func Order(rs query.ResultSet, p OrderParams) Ordered {
	start := time.Now()

	limit := p.AppLimit
	if limit <= 0 {
		limit = DefaultAppLimit
	}
	appName := p.AppName
	if appName == nil {
		appName = func(a *desktop.App) string { return a.Name }
	}

	var out Ordered
	push := func(e Entry) {
		e.Slot = len(out)
		e.Rect = p.Layout.SlotRect(e.Slot)
		out = append(out, e)
	}

	for _, lane := range p.Lanes {
		switch strings.ToLower(lane) {
		case LanePrefixes:
			if rs.Prefix != nil {
				push(Entry{Kind: KindPrefix, Prefix: rs.Prefix})
			}
		case LaneMath:
			if rs.Math != nil {
				push(Entry{Kind: KindMath, Math: *rs.Math})
			}
		case LaneDesktop, LaneApps:
			apps := rs.Apps
			if len(apps) > limit {
				apps = apps[:limit]
			}
			for _, app := range apps {
				push(Entry{Kind: KindApp, App: app, AppName: appName(app)})
			}
		case LaneSearch:
			push(Entry{Kind: KindSearch, Search: rs.Search})
		default:
			if _, seen := warnedLanes.LoadOrStore(lane, true); !seen {
				logging.Warn("skipping unknown result lane", "lane", lane)
			}
		}
	}

	logging.Debug("rebuilt result list", "entries", len(out), "took", time.Since(start))
	return out
}
