// Package launcher is the launcher state machine. It owns the edit buffer,
// the resolved result list and the key repeat emulator, and turns key
// events into re-resolves, selection moves and actions.
package launcher

import (
	"fmt"
	"time"

	"github.com/nikbrunner/sprint/internal/action"
	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/history"
	"github.com/nikbrunner/sprint/internal/keyrepeat"
	"github.com/nikbrunner/sprint/internal/keys"
	"github.com/nikbrunner/sprint/internal/logging"
	"github.com/nikbrunner/sprint/internal/query"
	"github.com/nikbrunner/sprint/internal/render"
	"github.com/nikbrunner/sprint/internal/results"
	"github.com/nikbrunner/sprint/internal/selection"
)

// State is the controller lifecycle state.
type State int

const (
	Active  State = iota
	Closing       // terminal; the host exits after drawing the current frame
)

func (s State) String() string {
	if s == Closing {
		return "closing"
	}
	return "active"
}

// Params holds parameters for New.
type Params struct {
	Config  *config.Config
	Index   *desktop.Index
	Runner  action.Runner
	History history.Recorder // optional
	Layout  results.Layout   // zero means results.DefaultLayout
	Repeat  keyrepeat.Policy
}

// Controller processes one event at a time and is not safe for concurrent
// use.
type Controller struct {
	cfg         *config.Config
	resolver    *query.Resolver
	orderParams results.OrderParams
	runner      action.Runner
	history     history.Recorder
	layout      results.Layout

	sel     selection.State
	ordered results.Ordered
	repeat  *keyrepeat.Emulator
	state   State
	status  string
}

// New builds a controller and resolves the empty query so the fallback
// lanes are visible before the first key press.
func New(p Params) *Controller {
	if p.Layout == (results.Layout{}) {
		p.Layout = results.DefaultLayout()
	}
	c := &Controller{
		cfg:      p.Config,
		resolver: query.NewResolver(p.Config, p.Index),
		runner:   p.Runner,
		history:  p.History,
		layout:   p.Layout,
		repeat:   keyrepeat.New(p.Repeat),
	}
	c.orderParams = results.OrderParams{
		Lanes:    p.Config.ResultOrder,
		AppLimit: p.Config.AppLimit,
		Layout:   p.Layout,
	}
	if p.Index != nil {
		c.orderParams.AppName = p.Index.Name
	}
	c.refresh()
	return c
}

// Press handles a key press from the key source and starts tracking it for
// repeat.
func (c *Controller) Press(ev keys.Event, now time.Time) {
	if c.state == Closing {
		return
	}
	c.repeat.Press(ev, now)
	c.handle(ev)
}

// Release stops repeating ev if it is the held key.
func (c *Controller) Release(ev keys.Event) {
	c.repeat.Release(ev)
}

// SetRepeatPolicy applies a repeat policy update from the key source.
func (c *Controller) SetRepeatPolicy(p keyrepeat.Policy) {
	c.repeat.SetPolicy(p)
}

// Tick feeds a due synthetic press through the normal key handling.
// It reports whether a press fired.
func (c *Controller) Tick(now time.Time) bool {
	if c.state == Closing {
		return false
	}
	ev, ok := c.repeat.Tick(now)
	if !ok {
		return false
	}
	c.handle(ev)
	return true
}

// NextWake returns how long the event loop may wait for input before it must
// call Tick. It reports false when the loop may block indefinitely.
func (c *Controller) NextWake(now time.Time) (time.Duration, bool) {
	if c.state == Closing {
		return 0, false
	}
	return c.repeat.NextDeadline(now)
}

// Ordered returns the current result list.
func (c *Controller) Ordered() results.Ordered { return c.ordered }

// Closing reports whether the controller reached its terminal state.
func (c *Controller) Closing() bool { return c.state == Closing }

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

func (c *Controller) Query() string { return c.sel.Text() }

func (c *Controller) Cursor() int { return c.sel.Cursor() }

func (c *Controller) Selected() int { return c.sel.Selected() }

// Status returns the last action error or notice, if any.
func (c *Controller) Status() string { return c.status }

// Frame returns the draw commands for the current state.
func (c *Controller) Frame() render.Frame {
	return render.BuildFrame(render.FrameParams{
		Font:     c.cfg.Font,
		Theme:    c.cfg.Theme,
		Layout:   c.layout,
		Query:    c.sel.Text(),
		Cursor:   c.sel.Cursor(),
		Entries:  c.ordered,
		Selected: c.sel.Selected(),
		Status:   c.status,
	})
}

func (c *Controller) handle(ev keys.Event) {
	switch ev.Sym {
	case keys.SymEscape:
		c.state = Closing
	case keys.SymReturn:
		c.confirm()
	case keys.SymCopy:
		c.copySelected()
	case keys.SymBackSpace:
		if _, ok := c.sel.DeleteBeforeCursor(); ok {
			c.refresh()
		}
	case keys.SymDown:
		c.sel.MoveSelection(1, len(c.ordered))
	case keys.SymUp:
		c.sel.MoveSelection(-1, len(c.ordered))
	case keys.SymRight:
		c.sel.MoveCursor(1)
	case keys.SymLeft:
		c.sel.MoveCursor(-1)
	case keys.SymHome:
		c.sel.CursorHome()
	case keys.SymEnd:
		c.sel.CursorEnd()
	case keys.SymChar:
		c.sel.InsertAtCursor(ev.Char)
		c.refresh()
	}
}

// refresh re-resolves the whole query, replaces the result list and clamps
// the selection. There is no partial update.
func (c *Controller) refresh() {
	c.status = ""
	rs := c.resolver.Resolve(c.sel.Text())
	c.ordered = results.Order(rs, c.orderParams)
	c.sel.Clamp(len(c.ordered))
}

func (c *Controller) selectedEntry() (results.Entry, bool) {
	if len(c.ordered) == 0 {
		return results.Entry{}, false
	}
	return c.ordered[c.sel.Selected()], true
}

// confirm runs the selected entry's action and closes. A failed action
// leaves the launcher open with the error in the status line.
func (c *Controller) confirm() {
	entry, ok := c.selectedEntry()
	if !ok {
		return
	}

	if err := c.run(entry); err != nil {
		logging.Error("action failed", "kind", entry.Kind, "label", entry.Label(), "err", err)
		c.status = err.Error()
		return
	}

	c.record(entry)
	c.state = Closing
}

func (c *Controller) run(e results.Entry) error {
	switch e.Kind {
	case results.KindApp:
		return c.runner.LaunchProcess(e.App)
	case results.KindPrefix:
		return c.runner.OpenURL(e.Prefix.URL)
	case results.KindSearch:
		return c.runner.OpenURL(e.Search.URL)
	case results.KindMath:
		return nil
	}
	return fmt.Errorf("unknown entry kind %v", e.Kind)
}

func (c *Controller) copySelected() {
	entry, ok := c.selectedEntry()
	if !ok {
		return
	}
	if err := c.runner.Copy(entry.Value()); err != nil {
		logging.Error("copy failed", "err", err)
		c.status = err.Error()
		return
	}
	c.status = "Copied " + entry.Value()
}

func (c *Controller) record(e results.Entry) {
	if c.history == nil {
		return
	}
	err := c.history.Record(history.Record{
		Kind:   e.Kind.String(),
		Label:  e.Label(),
		Target: e.Value(),
		Query:  c.sel.Text(),
	})
	if err != nil {
		logging.Warn("failed to record history", "err", err)
	}
}
