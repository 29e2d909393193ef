package recipe

import (
	"github.com/kingrea/recipekit/internal/logbook"
)

// ActionRunner executes named action blocks. There is no rollback: every
// primitive is a no-op once its effect exists, so a failed block is fixed by
// running it again.
type ActionRunner struct {
	book      *logbook.Logbook
	completed []string
	done      map[string]bool
}

// NewActionRunner records block outcomes in book (which may be nil).
func NewActionRunner(book *logbook.Logbook) *ActionRunner {
	return &ActionRunner{book: book, done: map[string]bool{}}
}

// Run executes fn under label. Errors are returned as *ActionError.
func (r *ActionRunner) Run(label string, fn func() error) error {
	return r.run("", label, fn)
}

func (r *ActionRunner) run(recipeName, label string, fn func() error) error {
	display := label
	if recipeName != "" {
		display = recipeName + "/" + label
	}
	r.book.Info("action %s started", display)
	if err := fn(); err != nil {
		r.book.Error("action %s failed: %v", display, err)
		return &ActionError{Recipe: recipeName, Label: label, Err: err}
	}
	r.book.Info("action %s completed", display)
	if !r.done[label] {
		r.done[label] = true
		r.completed = append(r.completed, label)
	}
	return nil
}

// Completed reports whether label finished successfully during this run.
func (r *ActionRunner) Completed(label string) bool {
	return r.done[label]
}

// CompletedLabels lists finished labels in completion order.
func (r *ActionRunner) CompletedLabels() []string {
	return append([]string{}, r.completed...)
}
