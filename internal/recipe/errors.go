package recipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRecipeNotFound is returned when no factory is registered for a name.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrCircularDependency is returned when recipes load each other in a loop.
	ErrCircularDependency = errors.New("circular dependency")
)

// LoadError wraps loader failures with the recipe name and load chain.
type LoadError struct {
	Name  string
	Chain []string
	Kind  error
	Err   error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("recipe: %s: %s", e.Name, e.Kind.Error())
	if len(e.Chain) > 0 {
		msg += " (" + strings.Join(e.Chain, " -> ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ActionError annotates a failed action block with its label.
type ActionError struct {
	Recipe string
	Label  string
	Err    error
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Recipe != "" {
		return fmt.Sprintf("recipe %s: action %s: %v", e.Recipe, e.Label, e.Err)
	}
	return fmt.Sprintf("action %s: %v", e.Label, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
