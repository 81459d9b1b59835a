package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/headless"
	"github.com/nikbrunner/sprint/internal/history"
	"github.com/nikbrunner/sprint/internal/logging"
)

func executeRootCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolate points every XDG location at a temp dir so no test touches the
// real home directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_DATA_DIRS", filepath.Join(dir, "system"))
	t.Setenv("XDG_CURRENT_DESKTOP", "")
	t.Cleanup(logging.Close)
	return dir
}

func writeDesktopFile(t *testing.T, dir, id, name, exec string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(dir, 0755))
	data := "[Desktop Entry]\nType=Application\nName=" + name + "\nExec=" + exec + "\n"
	assert.NilError(t, os.WriteFile(filepath.Join(dir, id), []byte(data), 0644))
}

func TestEvalCommand(t *testing.T) {
	stdout, _, err := executeRootCommand(t, "", "eval", "2^10", "/", "4")
	assert.NilError(t, err)
	assert.Equal(t, stdout, "256\n")
}

func TestEvalCommand_RejectsText(t *testing.T) {
	_, _, err := executeRootCommand(t, "", "eval", "firefox")
	assert.ErrorContains(t, err, "not an arithmetic expression")
}

func TestConfigGen(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sprint.toml")

	stdout, _, err := executeRootCommand(t, "", "config", "gen", "--config", path)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(stdout, path))

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, data, config.DefaultContents())

	_, _, err = executeRootCommand(t, "", "config", "gen", "--config", path)
	assert.ErrorContains(t, err, "--force")

	_, _, err = executeRootCommand(t, "", "config", "gen", "--config", path, "--force")
	assert.NilError(t, err)
}

func TestConfigGen_Stdout(t *testing.T) {
	isolate(t)

	stdout, _, err := executeRootCommand(t, "", "config", "gen", "--stdout")
	assert.NilError(t, err)
	assert.Equal(t, stdout, string(config.DefaultContents()))
}

func TestConfigPathAndCheck(t *testing.T) {
	dir := isolate(t)

	stdout, _, err := executeRootCommand(t, "", "config", "path")
	assert.NilError(t, err)
	assert.Equal(t, stdout, filepath.Join(dir, "config", "sprint.toml")+"\n")

	bad := filepath.Join(dir, "bad.toml")
	assert.NilError(t, os.WriteFile(bad, []byte(`font = ""`), 0644))
	_, _, err = executeRootCommand(t, "", "config", "check", "--config", bad)
	assert.ErrorContains(t, err, "load config")

	stdout, _, err = executeRootCommand(t, "", "config", "check")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(stdout, "ok: 11 web prefixes"))
}

func TestAppsCommand(t *testing.T) {
	dir := isolate(t)
	apps := filepath.Join(dir, "apps")
	writeDesktopFile(t, apps, "firefox.desktop", "Firefox", "firefox %u")
	writeDesktopFile(t, apps, "files.desktop", "Files", "nautilus")

	stdout, _, err := executeRootCommand(t, "", "apps", "--apps-dir", apps)
	assert.NilError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, len(lines), 3)
	assert.Check(t, is.Contains(lines[0], "NAME"))
	assert.Check(t, is.Contains(stdout, "firefox.desktop"))
	assert.Check(t, is.Contains(stdout, "nautilus"))
}

func TestHistoryCommand(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "history.db")

	store, err := history.Open(dbPath)
	assert.NilError(t, err)
	assert.NilError(t, store.Record(history.Record{Kind: "app", Label: "Firefox", Target: "firefox"}))
	assert.NilError(t, store.Record(history.Record{Kind: "app", Label: "Firefox", Target: "firefox"}))
	assert.NilError(t, store.Record(history.Record{Kind: "math", Label: "= 4", Target: "4"}))
	assert.NilError(t, store.Close())

	stdout, _, err := executeRootCommand(t, "", "history", "--history-db", dbPath)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(stdout, "Firefox"))
	assert.Check(t, is.Contains(stdout, "= 4"))

	stdout, _, err = executeRootCommand(t, "", "history", "--history-db", dbPath, "--top", "-n", "1")
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Check(t, strings.HasPrefix(lines[1], "2"), lines[1])

	_, _, err = executeRootCommand(t, "", "history", "--history-db", dbPath, "--clear")
	assert.NilError(t, err)

	stdout, _, err = executeRootCommand(t, "", "history", "--history-db", dbPath)
	assert.NilError(t, err)
	assert.Equal(t, len(strings.Split(strings.TrimSpace(stdout), "\n")), 1)
}

func TestHistoryCommand_FlagConflict(t *testing.T) {
	isolate(t)
	_, _, err := executeRootCommand(t, "", "history", "--top", "--clear")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestHeadlessCommand(t *testing.T) {
	dir := isolate(t)
	apps := filepath.Join(dir, "apps")
	writeDesktopFile(t, apps, "firefox.desktop", "Firefox", "firefox")

	input := strings.Join([]string{
		`{"type":"press","char":"f"}`,
		`{"type":"release","char":"f"}`,
		`{"type":"press","key":"escape"}`,
	}, "\n")

	stdout, _, err := executeRootCommand(t, input, "headless",
		"--apps-dir", apps,
		"--history-db", filepath.Join(dir, "history.db"),
	)
	assert.NilError(t, err)

	var outs []headless.Output
	dec := json.NewDecoder(strings.NewReader(stdout))
	for dec.More() {
		var o headless.Output
		assert.NilError(t, dec.Decode(&o))
		outs = append(outs, o)
	}
	// initial frame, press, release, escape
	assert.Equal(t, len(outs), 4)
	assert.Equal(t, outs[1].Query, "f")
	assert.Equal(t, outs[3].State, "closing")

	// The first run writes the default config and a log file.
	_, err = os.Stat(filepath.Join(dir, "config", "sprint.toml"))
	assert.NilError(t, err)
	logs, err := filepath.Glob(filepath.Join(dir, "state", "sprint", "sprint-*.log"))
	assert.NilError(t, err)
	assert.Equal(t, len(logs), 1)
}

func TestConfigCheck_Probe(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
		}
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(dir, "probe.toml")
	data := `search_template = "` + srv.URL + `/search?q=%%QUERY%%"

[[web_prefixes]]
name = "Gone"
trigger = ">gone"
url = "` + srv.URL + `/gone?q=%%QUERY%%"
`
	assert.NilError(t, os.WriteFile(path, []byte(data), 0644))

	stdout, _, err := executeRootCommand(t, "", "config", "check", "--config", path, "--probe", "--timeout", "5s")
	assert.ErrorContains(t, err, "1 of 2 search templates failed")
	assert.Check(t, is.Contains(stdout, "dead"))
	assert.Check(t, is.Contains(stdout, "web search"))
}
