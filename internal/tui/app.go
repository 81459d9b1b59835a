// Package tui hosts the launcher in a terminal. Terminals report presses but
// not releases, so every key message is fed to the controller as a press
// immediately followed by its release and the terminal's own auto-repeat
// stands in for the emulator.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sprint/internal/launcher"
	"github.com/nikbrunner/sprint/internal/tui/layout"
)

// App is the bubbletea model wrapping a launcher controller.
type App struct {
	ctl    *launcher.Controller
	keys   KeyMap
	styles Styles
	layout layout.LayoutConfig
	now    func() time.Time

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Controller *launcher.Controller
	Keys       *KeyMap              // optional, uses default if nil
	Styles     *Styles              // optional, uses default if nil
	Layout     *layout.LayoutConfig // optional, uses default if nil
	Now        func() time.Time     // optional, uses time.Now if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.Layout != nil {
		cfg = *params.Layout
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return App{
		ctl:    params.Controller,
		keys:   keys,
		styles: styles,
		layout: cfg,
		now:    now,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.SetWindowTitle("sprint")
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case repeatTickMsg:
		a.ctl.Tick(a.now())
		if a.ctl.Closing() {
			return a, tea.Quit
		}
		return a, a.scheduleRepeat()
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := a.now()
	for _, ev := range a.keys.Events(msg) {
		a.ctl.Press(ev, now)
		a.ctl.Release(ev)
		if a.ctl.Closing() {
			return a, tea.Quit
		}
	}
	return a, a.scheduleRepeat()
}

// repeatTickMsg wakes the model when the emulator has a press due.
type repeatTickMsg time.Time

func (a App) scheduleRepeat() tea.Cmd {
	d, ok := a.ctl.NextWake(a.now())
	if !ok {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return repeatTickMsg(t) })
}

// Controller returns the wrapped launcher controller.
func (a App) Controller() *launcher.Controller {
	return a.ctl
}

// Closing reports whether the launcher has finished.
func (a App) Closing() bool {
	return a.ctl.Closing()
}
