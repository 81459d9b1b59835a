package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sprint/internal/headless"
	"github.com/nikbrunner/sprint/internal/keyrepeat"
)

func newHeadlessCommand(opts *rootOptions) *cobra.Command {
	var rate int
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Drive the launcher with JSON-lines key events on stdin",
		Long: `Reads one JSON key event per line from stdin and writes one JSON frame per
state change to stdout. Events:

  {"type":"press","char":"f"}
  {"type":"press","key":"backspace"}
  {"type":"release","key":"backspace"}
  {"type":"repeat","rate":25,"delay_ms":600}
  {"type":"disable_repeat"}

Held keys repeat according to the current repeat policy until released.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			env, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ctl := env.controller(keyrepeat.Policy{Rate: rate, Delay: delay})
			session := headless.NewSession(ctl, cmd.OutOrStdout(), nil)
			err = session.Run(cmd.Context(), cmd.InOrStdin())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&rate, "repeat-rate", 25, "initial key repeats per second (0 disables)")
	cmd.Flags().DurationVar(&delay, "repeat-delay", 600*time.Millisecond, "initial hold time before a key repeats")
	return cmd
}
