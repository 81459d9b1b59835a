package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int
	var top bool
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently confirmed launcher entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top && clearAll {
				return fmt.Errorf("--top and --clear are mutually exclusive")
			}
			cmd.SilenceUsage = true

			store, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintf(out, "cleared %s\n", store.Path())
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			if top {
				usage, err := store.Top(limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "COUNT\tKIND\tLABEL\tLAST")
				for _, u := range usage {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.Count, u.Kind, u.Label, humanize.Time(u.Last))
				}
				return w.Flush()
			}

			records, err := store.Recent(limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "WHEN\tKIND\tLABEL\tTARGET")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(r.LaunchedAt), r.Kind, r.Label, r.Target)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of rows to show")
	cmd.Flags().BoolVar(&top, "top", false, "show the most launched targets instead of the latest")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all recorded history")
	return cmd
}
