// Package action performs what a confirmed entry asks for: starting an
// application, opening a URL, or copying text.
package action

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/shlex"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/logging"
)

// ErrEmptyCommand is returned when an Exec line has nothing left to run
// after field codes are removed.
var ErrEmptyCommand = errors.New("empty command")

// Runner is the side-effecting half of the launcher.
type Runner interface {
	LaunchProcess(app *desktop.App) error
	OpenURL(url string) error
	Copy(text string) error
}

// System runs actions on the local machine.
type System struct {
	shell    bool
	terminal string

	// start launches a prepared command. Replaced in tests.
	start func(*exec.Cmd) error
}

// NewSystem returns a Runner configured by the [launch] config table.
func NewSystem(cfg config.Launch) *System {
	return &System{shell: cfg.Shell, terminal: cfg.Terminal, start: startDetached}
}

// LaunchProcess starts app detached from the launcher with its output
// discarded.
func (s *System) LaunchProcess(app *desktop.App) error {
	cmd, err := s.Command(app)
	if err != nil {
		return fmt.Errorf("launch %s: %w", app.ID, err)
	}
	logging.Info("launching application", "id", app.ID, "argv", cmd.Args)
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("launch %s: %w", app.ID, err)
	}
	return nil
}

// Command builds the command for app without starting it.
func (s *System) Command(app *desktop.App) (*exec.Cmd, error) {
	var argv []string
	if s.shell {
		logging.Warn("launching through sh -c; exec lines are not sanitized", "id", app.ID)
		line := strings.Join(StripFieldCodes(strings.Fields(app.Exec)), " ")
		if line == "" {
			return nil, ErrEmptyCommand
		}
		argv = []string{"sh", "-c", line}
	} else {
		var err error
		argv, err = Argv(app)
		if err != nil {
			return nil, err
		}
	}

	if app.Terminal && s.terminal != "" {
		argv = append([]string{s.terminal, "-e"}, argv...)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = app.WorkDir
	return cmd, nil
}

// OpenURL hands url to the platform's default handler.
func (s *System) OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("open %s: unsupported platform %s", url, runtime.GOOS)
	}
	logging.Info("opening url", "url", url)
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Copy puts text on the system clipboard.
func (s *System) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Argv splits app's Exec line into an argument vector using shell quoting
// rules and expands or removes its field codes.
func Argv(app *desktop.App) ([]string, error) {
	tokens, err := shlex.Split(app.Exec)
	if err != nil {
		return nil, fmt.Errorf("split exec line: %w", err)
	}

	var argv []string
	for _, tok := range tokens {
		switch tok {
		case "%i":
			if app.Icon != "" {
				argv = append(argv, "--icon", app.Icon)
			}
			continue
		case "%c":
			argv = append(argv, app.Name)
			continue
		case "%k":
			if app.Path != "" {
				argv = append(argv, app.Path)
			}
			continue
		}
		if isFieldCode(tok) {
			continue
		}
		argv = append(argv, stripEmbedded(tok))
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// StripFieldCodes drops tokens that start with a field code, the way the
// plain shell launch has always treated them.
func StripFieldCodes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "%") && !strings.HasPrefix(tok, "%%") {
			continue
		}
		out = append(out, tok)
	}
	return out
}

const fieldCodes = "fFuUdDnNickvm"

func isFieldCode(tok string) bool {
	return len(tok) == 2 && tok[0] == '%' && strings.IndexByte(fieldCodes, tok[1]) >= 0
}

// stripEmbedded removes field codes inside a token and unescapes %%.
func stripEmbedded(tok string) string {
	if !strings.Contains(tok, "%") {
		return tok
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '%' || i+1 == len(tok) {
			b.WriteByte(tok[i])
			continue
		}
		next := tok[i+1]
		switch {
		case next == '%':
			b.WriteByte('%')
			i++
		case strings.IndexByte(fieldCodes, next) >= 0:
			i++
		default:
			b.WriteByte('%')
		}
	}
	return b.String()
}
