package heroku

import (
	"embed"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/recipe"
)

const (
	// Name is the registry key.
	Name = "heroku"

	// DecisionKey stores whether the project deploys to Heroku.
	DecisionKey = "heroku"

	// ManifestFile marks a project as set up for Heroku.
	ManifestFile = "app.json"
	// Procfile declares the processes Heroku runs.
	Procfile = "Procfile"

	webProcess = "web: bundle exec puma -C config/puma.rb\n"
)

//go:embed assets/*
var assets embed.FS

var unsafeName = regexp.MustCompile(`[^a-z0-9-]+`)

// Recipe prepares the project for Heroku deploys.
type Recipe struct {
	*recipe.Base
}

// Register adds the recipe factory to the registry.
func Register(reg *recipe.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Name, func(ctx *recipe.Context) (recipe.Recipe, error) {
		return New(ctx), nil
	})
}

// New builds the recipe bound to ctx.
func New(ctx *recipe.Context) *Recipe {
	info := recipe.Info{
		Name:        Name,
		Title:       "Heroku",
		Description: "Adds the app.json manifest and Procfile Heroku needs.",
	}
	return &Recipe{Base: recipe.NewBase(info, ctx)}
}

// DecisionKey implements recipe.Decider.
func (r *Recipe) DecisionKey() string {
	return DecisionKey
}

// Ask records the deploy decision.
func (r *Recipe) Ask() error {
	value, err := r.Answer(DecisionKey, func() (answers.Value, error) {
		return r.Confirm("Are you going to deploy to heroku?")
	})
	if err != nil {
		return err
	}
	return r.Set(DecisionKey, value)
}

// Create writes app.json and the web process when the decision is yes.
func (r *Recipe) Create() error {
	if !r.Selected(DecisionKey) {
		return nil
	}
	return r.RunAction("setup_heroku", func() error {
		tree := r.Tree()
		vars := struct{ Name string }{Name: AppName(tree.Root())}
		if _, err := tree.RenderTemplate(assets, "assets/app.json.tmpl", ManifestFile, vars, false); err != nil {
			return err
		}
		_, err := tree.AppendIfAbsent(Procfile, webProcess)
		return err
	})
}

// Install asks and then creates.
func (r *Recipe) Install() error {
	if err := r.Ask(); err != nil {
		return err
	}
	return r.Create()
}

// Installed reports whether app.json exists.
func (r *Recipe) Installed() (bool, error) {
	return r.Tree().Exists(ManifestFile), nil
}

// AppName derives a Heroku-safe application name from the project directory.
func AppName(dir string) string {
	name := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-")
	if name == "" {
		return "app"
	}
	return name
}
