package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sprint/internal/query"
	"github.com/nikbrunner/sprint/internal/results"
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression as the math lane would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			v, ok := query.Eval(input)
			if !ok {
				cmd.SilenceUsage = true
				return fmt.Errorf("not an arithmetic expression: %q", input)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), results.FormatNumber(v))
			return err
		},
	}
	return cmd
}
