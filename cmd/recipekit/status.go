package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/recipekit/internal/prompt"
	"github.com/kingrea/recipekit/internal/recipe"
	"github.com/kingrea/recipekit/internal/scaffold"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which recipes are present and what was decided for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := recipe.NewContext(p.tree, p.answers, prompt.AssumeYes{}).WithLogger(p.logger)
			loader := recipe.NewLoader(p.registry, ctx)
			out := cmd.OutOrStdout()
			for _, name := range p.registry.Names() {
				installed, err := loader.Installed(name)
				if err != nil {
					return err
				}
				state := mutedStyle.Render("absent   ")
				if installed {
					state = renderStatus(scaffold.StatusInstalled)
				}
				inst, err := loader.Load(name)
				if err != nil {
					return err
				}
				key := recipe.DecisionKey(inst)
				decision := fmt.Sprintf("%s=%s", key, p.answers.Get(key))
				fmt.Fprintf(out, "  %s %-22s %-28s %s\n", state, name, decision, mutedStyle.Render(inst.Info().Description))
			}
			return nil
		},
	}
}
