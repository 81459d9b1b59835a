package headless_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/headless"
	"github.com/nikbrunner/sprint/internal/launcher"
)

type fakeRunner struct {
	launched []string
}

func (f *fakeRunner) LaunchProcess(app *desktop.App) error {
	f.launched = append(f.launched, app.ID)
	return nil
}
func (f *fakeRunner) OpenURL(string) error { return nil }
func (f *fakeRunner) Copy(string) error    { return nil }

// fakeClock jumps forward by exactly the requested wait.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func newController(runner *fakeRunner) *launcher.Controller {
	apps := []*desktop.App{
		{ID: "firefox.desktop", Name: "Firefox", Exec: "firefox"},
		{ID: "files.desktop", Name: "Files", Exec: "nautilus"},
	}
	return launcher.New(launcher.Params{
		Config: config.Default(),
		Index:  desktop.NewIndex(apps, nil, nil),
		Runner: runner,
	})
}

func decodeOutputs(t *testing.T, data []byte) []headless.Output {
	t.Helper()
	var outs []headless.Output
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var o headless.Output
		assert.NilError(t, dec.Decode(&o))
		outs = append(outs, o)
	}
	return outs
}

func TestRun_TypeSelectLaunch(t *testing.T) {
	runner := &fakeRunner{}
	var out bytes.Buffer
	s := headless.NewSession(newController(runner), &out, &fakeClock{})

	input := strings.Join([]string{
		`{"type":"press","char":"f"}`,
		`{"type":"release","char":"f"}`,
		`{"type":"press","char":"i"}`,
		`{"type":"press","key":"down"}`,
		`{"type":"press","key":"return"}`,
		`{"type":"press","char":"x"}`,
	}, "\n")

	assert.NilError(t, s.Run(context.Background(), strings.NewReader(input)))
	assert.DeepEqual(t, runner.launched, []string{"firefox.desktop"})

	outs := decodeOutputs(t, out.Bytes())
	assert.Equal(t, len(outs), 6)
	assert.Equal(t, outs[0].Query, "")
	assert.Equal(t, outs[3].Query, "fi")
	assert.Equal(t, outs[4].Selected, 1)
	assert.Equal(t, outs[5].State, "closing")
}

func TestRun_SkipsBadLines(t *testing.T) {
	var out bytes.Buffer
	s := headless.NewSession(newController(&fakeRunner{}), &out, &fakeClock{})

	input := strings.Join([]string{
		`not json`,
		``,
		`{"type":"wiggle"}`,
		`{"type":"press","key":"f13"}`,
		`{"type":"press","char":"ab"}`,
		`{"type":"press","char":"a"}`,
	}, "\n")

	assert.NilError(t, s.Run(context.Background(), strings.NewReader(input)))
	outs := decodeOutputs(t, out.Bytes())
	assert.Equal(t, len(outs), 2)
	assert.Equal(t, outs[1].Query, "a")
}

func TestRun_EscapeCloses(t *testing.T) {
	var out bytes.Buffer
	s := headless.NewSession(newController(&fakeRunner{}), &out, nil)

	err := s.Run(context.Background(), strings.NewReader(`{"type":"press","key":"esc"}`+"\n"))
	assert.NilError(t, err)
	outs := decodeOutputs(t, out.Bytes())
	assert.Equal(t, outs[len(outs)-1].State, "closing")
}

func TestRun_HeldKeyRepeats(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := headless.NewSession(newController(&fakeRunner{}), outW, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, inR) }()

	go func() {
		for _, line := range []string{
			`{"type":"press","char":"a"}`,
			`{"type":"release","char":"a"}`,
			`{"type":"press","char":"b"}`,
			`{"type":"release","char":"b"}`,
			`{"type":"press","char":"c"}`,
			`{"type":"release","char":"c"}`,
			`{"type":"repeat","rate":2,"delay_ms":500}`,
			`{"type":"press","key":"backspace"}`,
		} {
			if _, err := io.WriteString(inW, line+"\n"); err != nil {
				return
			}
		}
	}()

	var queries []string
	sc := bufio.NewScanner(outR)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var o headless.Output
		assert.NilError(t, json.Unmarshal(sc.Bytes(), &o))
		queries = append(queries, o.Query)
		if len(queries) == 11 {
			break
		}
	}

	cancel()
	outR.Close()
	inW.Close()
	<-done

	assert.DeepEqual(t, queries, []string{"", "a", "a", "ab", "ab", "abc", "abc", "abc", "ab", "a", ""})
}

func TestApply_RepeatPolicy(t *testing.T) {
	ctl := newController(&fakeRunner{})
	s := headless.NewSession(ctl, io.Discard, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.NilError(t, s.Apply(headless.Event{Type: headless.EventRepeat, Rate: 25, DelayMS: 600}, now))
	assert.NilError(t, s.Apply(headless.Event{Type: headless.EventPress, Key: "down"}, now))
	d, ok := ctl.NextWake(now)
	assert.Assert(t, ok)
	assert.Equal(t, d, 600*time.Millisecond)

	assert.NilError(t, s.Apply(headless.Event{Type: headless.EventDisableRepeat}, now))
	_, ok = ctl.NextWake(now)
	assert.Assert(t, !ok)
}

func TestApply_Errors(t *testing.T) {
	s := headless.NewSession(newController(&fakeRunner{}), io.Discard, nil)
	now := time.Now()

	assert.ErrorContains(t, s.Apply(headless.Event{Type: "press", Key: "char"}, now), "needs a char")
	assert.ErrorContains(t, s.Apply(headless.Event{Type: "press", Char: "ab"}, now), "single character")
	assert.ErrorContains(t, s.Apply(headless.Event{Type: "jump"}, now), "unknown event type")
}
