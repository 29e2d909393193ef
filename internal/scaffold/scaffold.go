package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/logbook"
	"github.com/kingrea/recipekit/internal/logging"
	"github.com/kingrea/recipekit/internal/mutate"
	"github.com/kingrea/recipekit/internal/prompt"
	"github.com/kingrea/recipekit/internal/recipe"
)

// Status summarises what happened to one recipe during a run.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusDeclined  Status = "declined"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is the result for a single recipe.
type Outcome struct {
	Name   string
	Status Status
	Reason string
	Err    error
}

// Report lists outcomes in install order.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

// Outcome returns the entry for name.
func (r Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Count returns how many recipes ended with status.
func (r Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Request describes one run.
type Request struct {
	Tree     *mutate.Tree
	Answers  *answers.Store
	Prompter prompt.Prompter
	Reporter recipe.Reporter
	Logbook  *logbook.Logbook
	Logger   *logging.Logger
	Recipes  []string
}

// Orchestrator installs recipes from a registry.
type Orchestrator struct {
	registry *recipe.Registry
	newRunID func() string
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithRunID overrides run ID generation (primarily for tests).
func WithRunID(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newRunID = fn
		}
	}
}

// New wires an orchestrator to the recipe registry.
func New(registry *recipe.Registry, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("scaffold: recipe registry is required")
	}
	o := &Orchestrator{registry: registry, newRunID: uuid.NewString}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run installs the requested recipes and their dependencies. Planning errors
// (unknown recipes, dependency cycles) abort the run before any recipe is
// installed. Recipe failures are collected in the report and joined into the
// returned error.
func (o *Orchestrator) Run(req Request) (Report, error) {
	if req.Tree == nil || req.Answers == nil {
		return Report{}, fmt.Errorf("scaffold: project tree and answer store are required")
	}
	report := Report{RunID: o.newRunID()}
	book := req.Logbook.ForRun(report.RunID)
	logger := req.Logger.ForRun(report.RunID)
	ctx := recipe.NewContext(req.Tree, req.Answers, req.Prompter).
		WithLogbook(book).
		WithLogger(logger).
		WithReporter(req.Reporter)
	loader := recipe.NewLoader(o.registry, ctx)

	plan, err := Plan(loader, req.Recipes)
	if err != nil {
		book.Error("run aborted: %v", err)
		return report, err
	}
	book.Info("run started in %s: %s", req.Tree.Root(), strings.Join(plan, ", "))
	logger.Printf("scaffold run in %s: %s", req.Tree.Root(), strings.Join(plan, ", "))

	broken := map[string]string{}
	var errs []error
	for _, name := range plan {
		inst, _ := loader.Load(name)
		outcome := Outcome{Name: name}
		if dep := blockedBy(inst, broken); dep != "" {
			outcome.Status = StatusSkipped
			outcome.Reason = fmt.Sprintf("dependency %s %s", dep, broken[dep])
			broken[name] = string(StatusSkipped)
			book.Warn("recipe %s skipped: %s", name, outcome.Reason)
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		if err := inst.Install(); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			broken[name] = string(StatusFailed)
			errs = append(errs, err)
			book.Error("recipe %s failed: %v", name, err)
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		installed, err := inst.Installed()
		switch {
		case err != nil:
			outcome.Status = StatusFailed
			outcome.Err = fmt.Errorf("recipe %s: installed check: %w", name, err)
			broken[name] = string(StatusFailed)
			errs = append(errs, outcome.Err)
		case installed:
			outcome.Status = StatusInstalled
		default:
			outcome.Status = StatusDeclined
		}
		book.Info("recipe %s %s", name, outcome.Status)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	book.Info("run finished: %d installed, %d declined, %d failed, %d skipped",
		report.Count(StatusInstalled), report.Count(StatusDeclined),
		report.Count(StatusFailed), report.Count(StatusSkipped))
	return report, errors.Join(errs...)
}

// Plan orders names so every recipe follows the recipes it depends on.
// Dependencies that were not requested are added. Requested order is kept
// otherwise.
func Plan(loader *recipe.Loader, names []string) ([]string, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	var stack []string
	var ordered []string
	var visit func(string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, pending := range stack {
				if pending == name {
					start = i
					break
				}
			}
			chain := append(append([]string{}, stack[start:]...), name)
			return &recipe.LoadError{Name: name, Chain: chain, Kind: recipe.ErrCircularDependency}
		}
		inst, err := loader.Load(name)
		if err != nil {
			return err
		}
		state[name] = visiting
		stack = append(stack, name)
		if dependent, ok := inst.(recipe.Dependent); ok {
			for _, dep := range dependent.DependsOn() {
				if err := visit(strings.TrimSpace(dep)); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		ordered = append(ordered, name)
		return nil
	}
	for _, name := range names {
		if err := visit(strings.TrimSpace(name)); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

func blockedBy(inst recipe.Recipe, broken map[string]string) string {
	dependent, ok := inst.(recipe.Dependent)
	if !ok {
		return ""
	}
	for _, dep := range dependent.DependsOn() {
		if _, bad := broken[strings.TrimSpace(dep)]; bad {
			return strings.TrimSpace(dep)
		}
	}
	return ""
}
