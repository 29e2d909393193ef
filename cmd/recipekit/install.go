package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/prompt"
	"github.com/kingrea/recipekit/internal/scaffold"
)

func newInstallCmd(opts *rootOptions) *cobra.Command {
	presets := keyValueFlag{}
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "install [recipe...]",
		Short: "Ask each recipe's question and apply the ones you enable",
		Long: `Install runs recipes in dependency order. Without arguments it runs the
recipes listed in .recipekit/config.yaml.

Answers already stored in .recipekit/state are reused, so re-running install
only asks about recipes that have not been decided yet.

Examples:
  recipekit install
  recipekit install background_processor --answer email_service=sendgrid
  recipekit install --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			defer p.Close()

			for _, key := range presets.keys() {
				if err := p.answers.Set(key, answers.Parse(presets[key])); err != nil {
					return err
				}
			}
			names := args
			if len(names) == 0 {
				names = p.cfg.Recipes()
			}

			var prompter prompt.Prompter = prompt.NewTerminal(os.Stdin, cmd.OutOrStdout())
			if assumeYes {
				prompter = prompt.AssumeYes{}
			}
			orch, err := scaffold.New(p.registry)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("recipekit")+" "+mutedStyle.Render(p.tree.Root()))
			report, runErr := orch.Run(scaffold.Request{
				Tree:     p.tree,
				Answers:  p.answers,
				Prompter: prompter,
				Reporter: noteWriter{out: out},
				Logbook:  p.logbook,
				Logger:   p.logger,
				Recipes:  names,
			})
			for _, outcome := range report.Outcomes {
				line := fmt.Sprintf("  %s %s", renderStatus(outcome.Status), outcome.Name)
				if outcome.Reason != "" {
					line += mutedStyle.Render(" (" + outcome.Reason + ")")
				}
				fmt.Fprintln(out, line)
			}
			return runErr
		},
	}
	cmd.Flags().Var(&presets, "answer", "pre-seed a decision (key=value, repeatable)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every question and pick the first option")
	return cmd
}

// keyValueFlag collects repeated key=value flags.
type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for _, key := range kv.keys() {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, (*kv)[key]))
	}
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return fmt.Errorf("answer key is empty in %q", value)
	}
	if *kv == nil {
		*kv = keyValueFlag{}
	}
	(*kv)[key] = parts[1]
	return nil
}

func (kv *keyValueFlag) Type() string {
	return "key=value"
}

func (kv keyValueFlag) keys() []string {
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
