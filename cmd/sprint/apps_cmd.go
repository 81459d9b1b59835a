package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAppsCommand(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the applications the launcher would offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := opts.loadIndex(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEXEC")
			for _, app := range ix.Apps() {
				if !all && !app.VisibleIn(ix.Desktops()) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", app.ID, ix.Name(app), app.Exec)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include entries hidden from the current desktop")
	return cmd
}
