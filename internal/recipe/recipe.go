package recipe

import (
	"fmt"
	"strings"
)

// Info describes a recipe's identity and intent.
type Info struct {
	Name        string
	Title       string
	Description string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("recipe: name is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("recipe: title is required for %s", i.Name)
	}
	return nil
}

// Recipe is implemented by every optional feature. Ask records the decision,
// Create applies it, Install runs both, and Installed inspects the project
// regardless of whether Install ran in this session.
type Recipe interface {
	Info() Info
	Ask() error
	Create() error
	Install() error
	Installed() (bool, error)
}

// Dependent is implemented by recipes that must install after others.
type Dependent interface {
	DependsOn() []string
}

// Decider is implemented by recipes that store their decision in the answer
// store under a key of their own.
type Decider interface {
	DecisionKey() string
}

// DecisionKey returns the answer key holding inst's decision. Recipes that do
// not implement Decider store it under their name.
func DecisionKey(inst Recipe) string {
	if decider, ok := inst.(Decider); ok {
		return decider.DecisionKey()
	}
	return inst.Info().Name
}

// Reporter shows notes to the person running the scaffolder.
type Reporter interface {
	Note(message string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(message string)

// Note implements Reporter.
func (f ReporterFunc) Note(message string) {
	if f != nil {
		f(message)
	}
}
