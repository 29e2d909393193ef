package background_processor

import (
	"embed"
	"regexp"
	"strings"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/compose"
	"github.com/kingrea/recipekit/internal/recipe"
	"github.com/kingrea/recipekit/internal/recipes/heroku"
	"github.com/kingrea/recipekit/internal/recipes/mailer"
)

const (
	// Name is the registry key.
	Name = "background_processor"

	// DecisionKey stores whether Sidekiq is installed.
	DecisionKey = "background_processor"
	// HerokuInstalledKey records the heroku recipe's installed-state.
	HerokuInstalledKey = "heroku_installed"

	workerCommand = "bundle exec sidekiq"

	envFile     = ".env.development"
	routesFile  = "config/routes.rb"
	readmeFile  = "README.md"
	routeAnchor = "Rails.application.routes.draw do\n"
	mountRoute  = "  mount Sidekiq::Web => '/queue'\n"
)

const redisService = `image: redis
ports:
  - 6379
volumes:
  - redis_data:/data
`

const redisEnv = `REDIS_HOST=127.0.0.1
REDIS_PORT=$(make services-port SERVICE=redis PORT=6379)
REDIS_URL=redis://${REDIS_HOST}:${REDIS_PORT}/1
`

const (
	readmeHeading = "## Internal dependencies\n"
	readmeSidekiq = `
### Sidekiq

[Sidekiq](https://github.com/sidekiq/sidekiq) runs Active Job in the
background. It needs Redis: ` + "`docker compose up redis`" + ` starts one locally
and the dashboard is mounted at /queue.
`
)

//go:embed assets/*
var assets embed.FS

var (
	sidekiqGem     = regexp.MustCompile(`sidekiq`)
	wholeFile      = regexp.MustCompile(`(?s)^.*$`)
	workerLine     = regexp.MustCompile(`(?m)^worker:[ \t]*(.*?)[ \t]*\r?$`)
)

// Recipe installs Sidekiq and Redis.
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
		Title:       "Background processor",
		Description: "Adds Sidekiq, its Redis service and the wiring both need.",
	}
	return &Recipe{Base: recipe.NewBase(info, ctx)}
}

// DependsOn orders the recipe after the mailer, whose decision it reads.
func (r *Recipe) DependsOn() []string {
	return []string{mailer.Name}
}

// DecisionKey implements recipe.Decider.
func (r *Recipe) DecisionKey() string {
	return DecisionKey
}

// Ask records the decision, inferring yes when a mailer is enabled.
func (r *Recipe) Ask() error {
	var value answers.Value
	if mailer.Enabled(r.Get(mailer.DecisionKey)) {
		r.Note("Note: Emails should be sent on background jobs. We'll install sidekiq")
		value = answers.Bool(true)
	} else {
		var err error
		value, err = r.Answer(DecisionKey, func() (answers.Value, error) {
			return r.Confirm("Do you want to use Sidekiq for background job processing?")
		})
		if err != nil {
			return err
		}
	}
	return r.Set(DecisionKey, value)
}

// Create applies the action blocks when the decision is yes. A declined
// decision touches no files.
func (r *Recipe) Create() error {
	if !r.Selected(DecisionKey) {
		return nil
	}
	if err := r.RunAction("install_sidekiq", r.installSidekiq); err != nil {
		return err
	}
	if err := r.RunAction("add_docker_compose_redis_config", r.addComposeRedis); err != nil {
		return err
	}
	return r.RunAction("set_redis_dot_env", r.setRedisEnv)
}

// Install asks, records the heroku installed-state and creates.
func (r *Recipe) Install() error {
	if err := r.Ask(); err != nil {
		return err
	}
	installed, err := r.herokuInstalled()
	if err != nil {
		return err
	}
	if err := r.Set(HerokuInstalledKey, answers.Bool(installed)); err != nil {
		return err
	}
	return r.Create()
}

// Installed reports whether a sidekiq gem is declared in the Gemfile.
func (r *Recipe) Installed() (bool, error) {
	return r.Tree().GemExists(sidekiqGem)
}

func (r *Recipe) herokuInstalled() (bool, error) {
	h, err := r.LoadRecipe(heroku.Name)
	if err != nil {
		return false, err
	}
	return h.Installed()
}

func (r *Recipe) installSidekiq() error {
	tree := r.Tree()
	if _, err := tree.GatherGem("sidekiq"); err != nil {
		return err
	}
	if err := r.addAdapters("sidekiq"); err != nil {
		return err
	}
	if err := r.addReadmeSection(); err != nil {
		return err
	}
	if err := r.editProcfile(workerCommand); err != nil {
		return err
	}
	if _, err := tree.AppendIfAbsent(envFile, "DB_POOL=25\n"); err != nil {
		return err
	}
	vars := struct {
		AppName    string
		ProtectWeb bool
	}{AppName: heroku.AppName(tree.Root()), ProtectWeb: r.Selected(heroku.DecisionKey)}
	if _, err := tree.RenderTemplate(assets, "assets/sidekiq.rb.tmpl", "config/initializers/sidekiq.rb", vars, true); err != nil {
		return err
	}
	if _, err := tree.CopyFile(assets, "assets/sidekiq.yml", "config/sidekiq.yml", true); err != nil {
		return err
	}
	if _, err := tree.CopyFile(assets, "assets/redis.yml", "config/redis.yml", true); err != nil {
		return err
	}
	_, err := tree.InsertAfterAnchor(routesFile, routeAnchor, mountRoute)
	return err
}

func (r *Recipe) addAdapters(name string) error {
	tree := r.Tree()
	lines := []struct{ line, env string }{
		{"config.active_job.queue_adapter = :" + name, ""},
		{"config.active_job.queue_adapter = :async", "development"},
		{"config.active_job.queue_adapter = :test", "test"},
	}
	for _, l := range lines {
		if _, err := tree.Application(l.line, l.env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recipe) addReadmeSection() error {
	tree := r.Tree()
	present, err := tree.Contains(readmeFile, readmeHeading)
	if err != nil {
		return err
	}
	if !present {
		content, _, err := readOptional(r, readmeFile)
		if err != nil {
			return err
		}
		heading := readmeHeading
		if content != "" {
			heading = "\n" + heading
			if !strings.HasSuffix(content, "\n") {
				heading = "\n" + heading
			}
		}
		if _, err := tree.AppendIfAbsent(readmeFile, heading); err != nil {
			return err
		}
	}
	_, err = tree.AppendIfAbsent(readmeFile, readmeSidekiq)
	return err
}

// editProcfile declares the worker process for Heroku projects. The rewrite
// itself is not idempotent, so it only runs while no worker is declared. A
// Procfile may declare one worker process, so a different existing worker is
// left alone and reported.
func (r *Recipe) editProcfile(cmd string) error {
	installed, err := r.herokuInstalled()
	if err != nil {
		return err
	}
	if !r.Selected(heroku.DecisionKey) && !installed {
		return nil
	}
	tree := r.Tree()
	content, found, err := readOptional(r, heroku.Procfile)
	if err != nil {
		return err
	}
	if existing := workerLine.FindStringSubmatch(content); existing != nil {
		if existing[1] != cmd {
			r.Note("Note: %s already declares worker: %s. Replace it with worker: %s to run Sidekiq on Heroku", heroku.Procfile, existing[1], cmd)
		}
		return nil
	}
	if !found {
		if err := tree.Replace(heroku.Procfile, ""); err != nil {
			return err
		}
	}
	return tree.RegexTransformAll(heroku.Procfile, wholeFile, func(match string) string {
		if match != "" && !strings.HasSuffix(match, "\n") {
			match += "\n"
		}
		return match + "worker: " + cmd + "\n"
	})
}

func (r *Recipe) addComposeRedis() error {
	doc := compose.Open(r.Tree(), compose.DefaultFile)
	if _, err := doc.AddService("redis", redisService); err != nil {
		return err
	}
	_, err := doc.AddVolume("redis_data")
	return err
}

func (r *Recipe) setRedisEnv() error {
	_, err := r.Tree().AppendIfAbsent(envFile, redisEnv)
	return err
}

func readOptional(r *Recipe, rel string) (string, bool, error) {
	tree := r.Tree()
	if !tree.Exists(rel) {
		return "", false, nil
	}
	content, err := tree.Read(rel)
	if err != nil {
		return "", true, err
	}
	return content, true, nil
}
