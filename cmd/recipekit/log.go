package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent action log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			defer p.Close()

			entries, total := p.logbook.Tail(lines)
			out := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(out, mutedStyle.Render("action log is empty"))
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintln(out, entry)
			}
			if total > len(entries) {
				fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("(%d of %d entries)", len(entries), total)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "number of entries to show")
	return cmd
}
