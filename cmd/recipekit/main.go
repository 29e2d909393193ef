package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/config"
	"github.com/kingrea/recipekit/internal/logbook"
	"github.com/kingrea/recipekit/internal/logging"
	"github.com/kingrea/recipekit/internal/mutate"
	"github.com/kingrea/recipekit/internal/recipe"
	"github.com/kingrea/recipekit/internal/recipes"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

type rootOptions struct {
	projectDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "recipekit",
		Short:         "Apply optional feature recipes to a Rails project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.projectDir, "project", "C", "", "project directory (defaults to the working directory)")
	root.AddCommand(
		newInstallCmd(opts),
		newStatusCmd(opts),
		newAnswersCmd(opts),
		newLogCmd(opts),
	)
	return root
}

// project bundles everything a command needs to work on one project.
type project struct {
	cfg      *config.Config
	tree     *mutate.Tree
	answers  *answers.Store
	logger   *logging.Logger
	logbook  *logbook.Logbook
	registry *recipe.Registry
}

func openProject(opts *rootOptions) (*project, error) {
	dir := strings.TrimSpace(opts.projectDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitDir(abs); err != nil {
		return nil, fmt.Errorf("init %s: %w", config.StateDirName, err)
	}
	cfg, err := config.NewConfig(abs)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := answers.Open(cfg.AnswersPath())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(abs)
	if err != nil {
		return nil, err
	}
	book, err := logbook.New(cfg.LogbookPath())
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	reg := recipe.NewRegistry()
	recipes.RegisterBuiltins(reg)
	return &project{
		cfg:      cfg,
		tree:     mutate.NewTree(abs),
		answers:  store,
		logger:   logger,
		logbook:  book,
		registry: reg,
	}, nil
}

func (p *project) Close() error {
	return p.logger.Close()
}
