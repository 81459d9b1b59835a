// Package keyrepeat synthesizes repeated presses for a held key from a
// repeat rate and delay announced by the key source.
package keyrepeat

import (
	"time"

	"github.com/nikbrunner/sprint/internal/keys"
)

// Policy is the repeat configuration reported by the key source.
type Policy struct {
	Rate     int           // repeats per second; 0 disables repeat
	Delay    time.Duration // hold time before the first repeat
	Disabled bool
}

// Enabled reports whether the policy allows synthesizing presses.
func (p Policy) Enabled() bool {
	return !p.Disabled && p.Rate > 0
}

// Interval returns the time between repeats once repeating.
func (p Policy) Interval() time.Duration {
	if p.Rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(p.Rate)
}

// Phase is the emulator state.
type Phase int

const (
	Idle    Phase = iota // no key held
	Pending              // held, waiting out the delay
	Active               // repeating at the policy rate
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Active:
		return "active"
	}
	return "idle"
}

// held exists only while a key is down.
type held struct {
	ev    keys.Event
	last  time.Time
	phase Phase
}

// Emulator tracks at most one held key. A press while another key is held
// replaces it and restarts the delay.
type Emulator struct {
	policy Policy
	held   *held
}

// New returns an idle emulator using p.
func New(p Policy) *Emulator {
	return &Emulator{policy: p}
}

// Policy returns the current policy.
func (e *Emulator) Policy() Policy { return e.policy }

// Phase returns the current phase.
func (e *Emulator) Phase() Phase {
	if e.held == nil {
		return Idle
	}
	return e.held.phase
}

// Press starts tracking ev. It is ignored while repeat is disabled.
func (e *Emulator) Press(ev keys.Event, now time.Time) {
	if !e.policy.Enabled() {
		e.held = nil
		return
	}
	e.held = &held{ev: ev, last: now, phase: Pending}
}

// Release stops tracking when ev is the held key. Releasing any other key
// does nothing.
func (e *Emulator) Release(ev keys.Event) {
	if e.held != nil && e.held.ev.Same(ev) {
		e.held = nil
	}
}

// SetPolicy replaces the policy. A disabled policy drops the held key.
func (e *Emulator) SetPolicy(p Policy) {
	e.policy = p
	if !p.Enabled() {
		e.held = nil
	}
}

// Tick returns a synthetic press when one is due at now. At most one press
// fires per call, and the repeat timer restarts at now.
func (e *Emulator) Tick(now time.Time) (keys.Event, bool) {
	h := e.held
	if h == nil {
		return keys.Event{}, false
	}

	elapsed := now.Sub(h.last)
	switch h.phase {
	case Pending:
		if elapsed < e.policy.Delay {
			return keys.Event{}, false
		}
		h.phase = Active
	case Active:
		if elapsed < e.policy.Interval() {
			return keys.Event{}, false
		}
	}
	h.last = now
	return h.ev, true
}

// NextDeadline returns how long the event loop may wait before the next
// Tick is due. It reports false when no key is held and the loop may block
// indefinitely.
func (e *Emulator) NextDeadline(now time.Time) (time.Duration, bool) {
	h := e.held
	if h == nil {
		return 0, false
	}

	wait := e.policy.Interval()
	if h.phase == Pending {
		wait = e.policy.Delay
	}
	d := h.last.Add(wait).Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}
