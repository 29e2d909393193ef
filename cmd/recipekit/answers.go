package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnswersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "answers",
		Short: "Print the stored decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			keys := p.answers.Keys()
			if len(keys) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no decisions recorded yet"))
				return nil
			}
			for _, key := range keys {
				fmt.Fprintf(out, "%s: %s\n", key, p.answers.Get(key))
			}
			return nil
		},
	}
}
