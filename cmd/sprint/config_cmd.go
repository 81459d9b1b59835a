package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/probe"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sprint configuration file",
	}
	cmd.AddCommand(newConfigGenCommand(opts))
	cmd.AddCommand(newConfigCheckCommand(opts))
	cmd.AddCommand(newConfigPathCommand(opts))
	return cmd
}

func newConfigGenCommand(opts *rootOptions) *cobra.Command {
	var force bool
	var stdout bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				_, err := cmd.OutOrStdout().Write(config.DefaultContents())
				return err
			}

			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				if !force {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite the target file if it already exists")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the config to stdout instead of writing a file")
	return cmd
}

func newConfigCheckCommand(opts *rootOptions) *cobra.Command {
	var doProbe bool
	var timeout time.Duration
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		Long: `Validates the configuration file. With --probe every web prefix and the
default search template is requested once with a sample query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %d web prefixes, lanes %v\n", len(cfg.WebPrefixes), cfg.ResultOrder)
			if !doProbe {
				return nil
			}

			results := probe.Check(cmd.Context(), probe.Targets(cfg), probe.Options{
				Concurrency: concurrency,
				Timeout:     timeout,
				PerSecond:   5,
			})
			failed := 0
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tCODE\tNAME\tDETAIL")
			for _, r := range results {
				if r.Status != probe.Healthy {
					failed++
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Status, r.StatusCode, r.Target.Name, r.Error)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d search templates failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&doProbe, "probe", false, "request every URL template once")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout for --probe")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel requests for --probe")
	return cmd
}

func newConfigPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Clean(path))
			return err
		},
	}
}
