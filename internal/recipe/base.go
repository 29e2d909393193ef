package recipe

import (
	"fmt"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/mutate"
	"github.com/kingrea/recipekit/internal/prompt"
)

// Base provides common plumbing for recipes: identity plus access to the run
// context. Recipes embed it and implement Ask, Create, Install and Installed.
type Base struct {
	info Info
	ctx  *Context
}

// NewBase seeds the helper with recipe info and the run context.
func NewBase(info Info, ctx *Context) *Base {
	return &Base{info: info, ctx: ctx}
}

// Info implements Recipe.Info.
func (b *Base) Info() Info {
	return b.info
}

// Context exposes the run context.
func (b *Base) Context() *Context {
	return b.ctx
}

// Tree returns the project file tree.
func (b *Base) Tree() *mutate.Tree {
	return b.ctx.Tree
}

// Get reads a decision.
func (b *Base) Get(key string) answers.Value {
	return b.ctx.Answers.Get(key)
}

// Set records a decision.
func (b *Base) Set(key string, value answers.Value) error {
	if err := b.ctx.Answers.Set(key, value); err != nil {
		return fmt.Errorf("%s: %w", b.info.Name, err)
	}
	b.ctx.Logger.Printf("%s: %s = %s", b.info.Name, key, value)
	return nil
}

// Selected reports whether the decision stored under key is truthy.
func (b *Base) Selected(key string) bool {
	return b.Get(key).Truthy()
}

// Answer returns the stored decision for key when one exists and otherwise
// calls ask. The result is not stored; callers pass it to Set.
func (b *Base) Answer(key string, ask func() (answers.Value, error)) (answers.Value, error) {
	if existing := b.Get(key); existing.Decided() {
		return existing, nil
	}
	value, err := ask()
	if err != nil {
		return answers.Undecided, fmt.Errorf("%s: ask %s: %w", b.info.Name, key, err)
	}
	return value, nil
}

// Confirm asks a yes/no question through the run's prompter.
func (b *Base) Confirm(question string) (answers.Value, error) {
	if b.ctx.Prompter == nil {
		return answers.Undecided, fmt.Errorf("%s: no prompter configured", b.info.Name)
	}
	ok, err := b.ctx.Prompter.Confirm(question)
	if err != nil {
		return answers.Undecided, err
	}
	return answers.Bool(ok), nil
}

// Select asks a pick-one question and returns the chosen value as an enum.
func (b *Base) Select(question string, options []prompt.Option) (answers.Value, error) {
	if b.ctx.Prompter == nil {
		return answers.Undecided, fmt.Errorf("%s: no prompter configured", b.info.Name)
	}
	choice, err := b.ctx.Prompter.Select(question, options)
	if err != nil {
		return answers.Undecided, err
	}
	return answers.Enum(choice), nil
}

// LoadRecipe resolves another recipe through the run's loader.
func (b *Base) LoadRecipe(name string) (Recipe, error) {
	if b.ctx.Loader == nil {
		return nil, fmt.Errorf("%s: loader unavailable", b.info.Name)
	}
	return b.ctx.Loader.Load(name)
}

// RunAction executes fn as the named action block.
func (b *Base) RunAction(label string, fn func() error) error {
	if b.ctx.Actions == nil {
		b.ctx.Actions = NewActionRunner(b.ctx.Logbook)
	}
	return b.ctx.Actions.run(b.info.Name, label, fn)
}

// Note shows a message to the user and records it in the logs.
func (b *Base) Note(format string, args ...any) {
	b.ctx.note(fmt.Sprintf(format, args...))
}
