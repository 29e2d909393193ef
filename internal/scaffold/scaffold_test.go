package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/logbook"
	"github.com/kingrea/recipekit/internal/logging"
	"github.com/kingrea/recipekit/internal/mutate"
	"github.com/kingrea/recipekit/internal/prompt"
	"github.com/kingrea/recipekit/internal/recipe"
	"github.com/kingrea/recipekit/internal/recipes"
)

type stubRecipe struct {
	*recipe.Base
	deps      []string
	err       error
	installed bool
	log       *[]string
}

func (s *stubRecipe) DependsOn() []string      { return s.deps }
func (s *stubRecipe) Ask() error               { return nil }
func (s *stubRecipe) Create() error            { return nil }
func (s *stubRecipe) Installed() (bool, error) { return s.installed, nil }
func (s *stubRecipe) Install() error {
	*s.log = append(*s.log, s.Info().Name)
	if s.err != nil {
		return s.err
	}
	s.installed = true
	return nil
}

type stubSpec struct {
	deps     []string
	err      error
	declines bool
}

func stubRegistry(specs map[string]stubSpec, log *[]string) *recipe.Registry {
	reg := recipe.NewRegistry()
	for name, spec := range specs {
		name, spec := name, spec
		reg.MustRegister(name, func(ctx *recipe.Context) (recipe.Recipe, error) {
			stub := &stubRecipe{
				Base: recipe.NewBase(recipe.Info{Name: name, Title: name}, ctx),
				deps: spec.deps,
				err:  spec.err,
				log:  log,
			}
			if spec.declines {
				stub.err = nil
				return &decliningRecipe{stub}, nil
			}
			return stub, nil
		})
	}
	return reg
}

type decliningRecipe struct {
	*stubRecipe
}

func (d *decliningRecipe) Install() error {
	*d.log = append(*d.log, d.Info().Name)
	return nil
}

func newRequest(t *testing.T, names ...string) (Request, *logbook.Logbook) {
	t.Helper()
	dir := t.TempDir()
	book, err := logbook.New(filepath.Join(dir, ".recipekit", "logs", "actions.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	return Request{
		Tree:     mutate.NewTree(dir),
		Answers:  answers.NewMemory(),
		Prompter: &prompt.Scripted{},
		Logbook:  book,
		Recipes:  names,
	}, book
}

func fixedID(id string) Option {
	return WithRunID(func() string { return id })
}

func TestRunOrdersDependenciesFirst(t *testing.T) {
	var log []string
	reg := stubRegistry(map[string]stubSpec{
		"mailer":               {},
		"heroku":               {},
		"background_processor": {deps: []string{"mailer"}},
	}, &log)
	orch, err := New(reg, fixedID("run-1"))
	if err != nil {
		t.Fatal(err)
	}
	req, book := newRequest(t, "background_processor", "heroku")
	report, err := orch.Run(req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Join(log, ","); got != "mailer,background_processor,heroku" {
		t.Fatalf("install order = %s", got)
	}
	if report.RunID != "run-1" || report.Count(StatusInstalled) != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	lines, _ := book.Tail(20)
	if len(lines) == 0 || !strings.Contains(lines[len(lines)-1], "[run-1] run finished: 3 installed") {
		t.Fatalf("logbook tail = %v", lines)
	}
}

func TestRunSkipsDependentsOfFailedRecipe(t *testing.T) {
	var log []string
	boom := errors.New("mailer exploded")
	reg := stubRegistry(map[string]stubSpec{
		"mailer":               {err: boom},
		"heroku":               {},
		"background_processor": {deps: []string{"mailer"}},
		"monitoring":           {deps: []string{"background_processor"}},
	}, &log)
	orch, _ := New(reg)
	req, _ := newRequest(t, "mailer", "heroku", "background_processor", "monitoring")
	report, err := orch.Run(req)
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined failure, got %v", err)
	}
	if got := strings.Join(log, ","); got != "mailer,heroku" {
		t.Fatalf("installed = %s", got)
	}
	expect := map[string]Status{
		"mailer":               StatusFailed,
		"heroku":               StatusInstalled,
		"background_processor": StatusSkipped,
		"monitoring":           StatusSkipped,
	}
	for name, status := range expect {
		outcome, ok := report.Outcome(name)
		if !ok || outcome.Status != status {
			t.Fatalf("%s: %+v", name, outcome)
		}
	}
	if outcome, _ := report.Outcome("monitoring"); !strings.Contains(outcome.Reason, "background_processor") {
		t.Fatalf("reason = %q", outcome.Reason)
	}
	if report.RunID == "" {
		t.Fatalf("expected generated run id")
	}
}

func TestRunReportsDeclinedRecipes(t *testing.T) {
	var log []string
	reg := stubRegistry(map[string]stubSpec{"heroku": {declines: true}}, &log)
	orch, _ := New(reg)
	req, _ := newRequest(t, "heroku")
	report, err := orch.Run(req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome, _ := report.Outcome("heroku"); outcome.Status != StatusDeclined {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestPlanRejectsCycles(t *testing.T) {
	var log []string
	reg := stubRegistry(map[string]stubSpec{
		"a": {deps: []string{"b"}},
		"b": {deps: []string{"a"}},
	}, &log)
	orch, _ := New(reg)
	req, _ := newRequest(t, "a")
	_, err := orch.Run(req)
	if !errors.Is(err, recipe.ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Fatalf("expected chain in message: %v", err)
	}
	if len(log) != 0 {
		t.Fatalf("nothing should install, got %v", log)
	}
}

func TestRunUnknownRecipe(t *testing.T) {
	orch, _ := New(recipe.NewRegistry())
	req, _ := newRequest(t, "sidekiq")
	if _, err := orch.Run(req); !errors.Is(err, recipe.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestRunBuiltinsUnattended(t *testing.T) {
	reg := recipe.NewRegistry()
	recipes.RegisterBuiltins(reg)
	orch, _ := New(reg)
	req, _ := newRequest(t, "mailer", "heroku", "background_processor")
	req.Prompter = &prompt.Scripted{Selections: []string{"none"}, Confirms: []bool{false, false}}

	report, err := orch.Run(req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"mailer", "heroku", "background_processor"} {
		if outcome, _ := report.Outcome(name); outcome.Status != StatusDeclined {
			t.Fatalf("%s: %+v", name, outcome)
		}
	}
	if got := req.Answers.Get("background_processor"); !got.Equal(answers.Bool(false)) {
		t.Fatalf("background_processor = %v", got)
	}
}

func TestRunTagsDebugLogWithRunID(t *testing.T) {
	reg := recipe.NewRegistry()
	recipes.RegisterBuiltins(reg)
	orch, _ := New(reg, fixedID("run-7"))
	req, _ := newRequest(t, "heroku")
	req.Prompter = prompt.AssumeYes{}
	logger, err := logging.New(req.Tree.Root())
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	req.Logger = logger

	if _, err := orch.Run(req); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(req.Tree.Root(), ".recipekit", "logs", logging.FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"[run-7] scaffold run in", "[run-7] heroku: heroku = true"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("debug log missing %q:\n%s", want, data)
		}
	}
}
