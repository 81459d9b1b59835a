// Package headless drives the launcher from JSON-lines key events and writes
// one JSON frame per state change. It is the key source for external render
// surfaces that report real press and release events.
package headless

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/nikbrunner/sprint/internal/keyrepeat"
	"github.com/nikbrunner/sprint/internal/keys"
	"github.com/nikbrunner/sprint/internal/launcher"
	"github.com/nikbrunner/sprint/internal/logging"
	"github.com/nikbrunner/sprint/internal/render"
)

// Event types accepted on input.
const (
	EventPress         = "press"
	EventRelease       = "release"
	EventRepeat        = "repeat"
	EventDisableRepeat = "disable_repeat"
)

// Event is one input line, e.g.
//
//	{"type":"press","char":"f"}
//	{"type":"press","key":"backspace"}
//	{"type":"repeat","rate":25,"delay_ms":600}
type Event struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Char    string `json:"char,omitempty"`
	Rate    int    `json:"rate,omitempty"`
	DelayMS int    `json:"delay_ms,omitempty"`
}

// Output is one output line.
type Output struct {
	State    string       `json:"state"`
	Query    string       `json:"query"`
	Cursor   int          `json:"cursor"`
	Selected int          `json:"selected"`
	Status   string       `json:"status,omitempty"`
	Frame    render.Frame `json:"frame"`
}

// Clock provides time to the loop.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Session runs one launcher controller against an input stream.
type Session struct {
	ctl   *launcher.Controller
	enc   *json.Encoder
	clock Clock
}

// NewSession returns a session writing frames to w. A nil clock uses the
// wall clock.
func NewSession(ctl *launcher.Controller, w io.Writer, clock Clock) *Session {
	if clock == nil {
		clock = realClock{}
	}
	return &Session{ctl: ctl, enc: json.NewEncoder(w), clock: clock}
}

type decoded struct {
	ev  Event
	err error
}

// Run processes events from r until the controller closes, the input ends
// or ctx is done. While a key is held the loop waits at most until the next
// repeat is due; otherwise it blocks on input.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan decoded)
	go readEvents(ctx, r, events)

	if err := s.emit(); err != nil {
		return err
	}

	for {
		var timer <-chan time.Time
		if d, ok := s.ctl.NextWake(s.clock.Now()); ok {
			timer = s.clock.After(d)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case in, ok := <-events:
			if !ok {
				return nil
			}
			if in.err == nil {
				in.err = s.Apply(in.ev, s.clock.Now())
			}
			if in.err != nil {
				logging.Warn("skipping input event", "err", in.err)
				continue
			}

		case now := <-timer:
			if !s.ctl.Tick(now) {
				continue
			}
		}

		if err := s.emit(); err != nil {
			return err
		}
		if s.ctl.Closing() {
			return nil
		}
	}
}

// Apply feeds one decoded event to the controller.
func (s *Session) Apply(ev Event, now time.Time) error {
	switch ev.Type {
	case EventPress, EventRelease:
		key, err := ev.keyEvent()
		if err != nil {
			return err
		}
		if ev.Type == EventPress {
			s.ctl.Press(key, now)
		} else {
			s.ctl.Release(key)
		}
	case EventRepeat:
		s.ctl.SetRepeatPolicy(keyrepeat.Policy{
			Rate:  ev.Rate,
			Delay: time.Duration(ev.DelayMS) * time.Millisecond,
		})
	case EventDisableRepeat:
		s.ctl.SetRepeatPolicy(keyrepeat.Policy{Disabled: true})
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func (ev Event) keyEvent() (keys.Event, error) {
	if ev.Char != "" {
		r, size := utf8.DecodeRuneInString(ev.Char)
		if r == utf8.RuneError || size != len(ev.Char) {
			return keys.Event{}, fmt.Errorf("char must be a single character, got %q", ev.Char)
		}
		return keys.Char(r), nil
	}
	sym, err := keys.ParseSym(ev.Key)
	if err != nil {
		return keys.Event{}, err
	}
	if sym == keys.SymChar {
		return keys.Event{}, fmt.Errorf("key %q needs a char", ev.Key)
	}
	return keys.Key(sym), nil
}

func (s *Session) emit() error {
	out := Output{
		State:    s.ctl.State().String(),
		Query:    s.ctl.Query(),
		Cursor:   s.ctl.Cursor(),
		Selected: s.ctl.Selected(),
		Status:   s.ctl.Status(),
		Frame:    s.ctl.Frame(),
	}
	if err := s.enc.Encode(out); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// readEvents decodes one JSON object per line. It never touches controller
// state; the loop goroutine owns it.
func readEvents(ctx context.Context, r io.Reader, out chan<- decoded) {
	defer close(out)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var d decoded
		if err := json.Unmarshal(line, &d.ev); err != nil {
			d.err = fmt.Errorf("decode event: %w", err)
		}
		select {
		case out <- d:
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		select {
		case out <- decoded{err: fmt.Errorf("read events: %w", err)}:
		case <-ctx.Done():
		}
	}
}
