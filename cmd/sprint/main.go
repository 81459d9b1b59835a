package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/sprint/internal/keyrepeat"
	"github.com/nikbrunner/sprint/internal/logging"
	"github.com/nikbrunner/sprint/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := submain(ctx)
	stop()
	os.Exit(code)
}

func submain(ctx context.Context) int {
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	logging.Close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sprint",
		Short:         "sprint is a keyboard-driven launcher for apps, web searches and quick math",
		SilenceErrors: true,
		Example: `
  # Open the launcher
  sprint

  # Drive the launcher from JSON key events on stdin
  sprint headless < events.jsonl

  # Evaluate an expression the way the math lane does
  sprint eval '2^10 / 4'
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTUI(cmd.Context(), opts)
		},
	}

	opts.bindFlags(cmd)

	cmd.AddCommand(newHeadlessCommand(opts))
	cmd.AddCommand(newAppsCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newEvalCommand())
	return cmd
}

// runTUI runs the launcher in the terminal.
func runTUI(ctx context.Context, opts *rootOptions) error {
	env, err := opts.setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	// Terminals deliver presses only; their own auto-repeat replaces the
	// emulator.
	ctl := env.controller(keyrepeat.Policy{Disabled: true})
	styles := tui.NewStyles(env.cfg.Theme)
	app := tui.NewApp(tui.AppParams{Controller: ctl, Styles: &styles})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run launcher: %w", err)
	}
	logging.Info("launcher closed", "query", ctl.Query())
	return nil
}
