package action

import (
	"errors"
	"os/exec"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
)

func TestArgv(t *testing.T) {
	tests := []struct {
		name string
		app  desktop.App
		want []string
	}{
		{
			name: "plain",
			app:  desktop.App{Exec: "firefox %u"},
			want: []string{"firefox"},
		},
		{
			name: "quoted args keep spaces",
			app:  desktop.App{Exec: `code --new-window "My Project" %F`},
			want: []string{"code", "--new-window", "My Project"},
		},
		{
			name: "escaped percent",
			app:  desktop.App{Exec: "printf 100%% %f"},
			want: []string{"printf", "100%"},
		},
		{
			name: "embedded field code",
			app:  desktop.App{Exec: "app --file=%f --x"},
			want: []string{"app", "--file=", "--x"},
		},
		{
			name: "icon name and path codes",
			app:  desktop.App{Exec: "app %i %c %k", Icon: "app-icon", Name: "App", Path: "/apps/app.desktop"},
			want: []string{"app", "--icon", "app-icon", "App", "/apps/app.desktop"},
		},
		{
			name: "icon code without icon",
			app:  desktop.App{Exec: "app %i"},
			want: []string{"app"},
		},
		{
			name: "no shell interpretation",
			app:  desktop.App{Exec: "echo $(rm -rf ~) ; reboot"},
			want: []string{"echo", "$(rm", "-rf", "~)", ";", "reboot"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Argv(&tt.app)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestArgv_Errors(t *testing.T) {
	_, err := Argv(&desktop.App{Exec: "%U"})
	assert.Assert(t, errors.Is(err, ErrEmptyCommand))

	_, err = Argv(&desktop.App{Exec: `app "unterminated`})
	assert.ErrorContains(t, err, "split exec line")
}

func TestStripFieldCodes(t *testing.T) {
	got := StripFieldCodes([]string{"app", "%U", "%%literal", "--flag"})
	assert.DeepEqual(t, got, []string{"app", "%%literal", "--flag"})
}

func TestCommand_Terminal(t *testing.T) {
	s := NewSystem(config.Launch{Terminal: "foot"})
	cmd, err := s.Command(&desktop.App{Exec: "htop", Terminal: true, WorkDir: "/tmp"})
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.Args, []string{"foot", "-e", "htop"})
	assert.Equal(t, cmd.Dir, "/tmp")
}

func TestCommand_Shell(t *testing.T) {
	s := NewSystem(config.Launch{Shell: true})
	cmd, err := s.Command(&desktop.App{Exec: "env FOO=1 app %U"})
	assert.NilError(t, err)
	assert.DeepEqual(t, cmd.Args, []string{"sh", "-c", "env FOO=1 app"})

	_, err = s.Command(&desktop.App{Exec: "%U"})
	assert.Assert(t, errors.Is(err, ErrEmptyCommand))
}

func TestLaunchProcess_UsesStarter(t *testing.T) {
	s := NewSystem(config.Launch{})
	var started []string
	s.start = func(cmd *exec.Cmd) error {
		started = cmd.Args
		return nil
	}

	assert.NilError(t, s.LaunchProcess(&desktop.App{ID: "firefox.desktop", Exec: "firefox %u"}))
	assert.DeepEqual(t, started, []string{"firefox"})
}

func TestLaunchProcess_StartError(t *testing.T) {
	s := NewSystem(config.Launch{})
	s.start = func(*exec.Cmd) error { return errors.New("no such file") }

	err := s.LaunchProcess(&desktop.App{ID: "ghost.desktop", Exec: "ghost"})
	assert.ErrorContains(t, err, "launch ghost.desktop: no such file")
}
