package recipe

import (
	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/logbook"
	"github.com/kingrea/recipekit/internal/logging"
	"github.com/kingrea/recipekit/internal/mutate"
	"github.com/kingrea/recipekit/internal/prompt"
)

// Context carries the shared run dependencies into every recipe. One Context
// (and one Loader) exists per scaffolding run.
type Context struct {
	Tree     *mutate.Tree
	Answers  *answers.Store
	Prompter prompt.Prompter
	Reporter Reporter
	Logbook  *logbook.Logbook
	Logger   *logging.Logger
	Actions  *ActionRunner
	Loader   *Loader
}

// NewContext builds a Context for the project at tree. Loader and Actions
// are attached by NewLoader.
func NewContext(tree *mutate.Tree, store *answers.Store, prompter prompt.Prompter) *Context {
	return &Context{
		Tree:     tree,
		Answers:  store,
		Prompter: prompter,
	}
}

// WithLogbook attaches the action logbook.
func (ctx *Context) WithLogbook(book *logbook.Logbook) *Context {
	ctx.Logbook = book
	return ctx
}

// WithLogger attaches the file logger.
func (ctx *Context) WithLogger(logger *logging.Logger) *Context {
	ctx.Logger = logger
	return ctx
}

// WithReporter attaches the user-facing note sink.
func (ctx *Context) WithReporter(reporter Reporter) *Context {
	ctx.Reporter = reporter
	return ctx
}

func (ctx *Context) note(message string) {
	if ctx.Reporter != nil {
		ctx.Reporter.Note(message)
	}
	ctx.Logger.Printf("note: %s", message)
	ctx.Logbook.Info("note: %s", message)
}
