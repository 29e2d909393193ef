package recipe

import (
	"fmt"
	"strings"
)

// Loader hands out one recipe instance per name for the lifetime of a run.
// Recipes use it to query each other instead of constructing peers directly.
type Loader struct {
	registry  *Registry
	ctx       *Context
	instances map[string]Recipe
	loading   []string
}

// NewLoader binds a loader and a fresh action runner to ctx.
func NewLoader(registry *Registry, ctx *Context) *Loader {
	l := &Loader{
		registry:  registry,
		ctx:       ctx,
		instances: map[string]Recipe{},
	}
	ctx.Loader = l
	ctx.Actions = NewActionRunner(ctx.Logbook)
	return l
}

// Load returns the recipe registered under name, constructing it on first
// use. A factory that (directly or transitively) loads a recipe still under
// construction fails with ErrCircularDependency.
func (l *Loader) Load(name string) (Recipe, error) {
	name = strings.TrimSpace(name)
	if inst, ok := l.instances[name]; ok {
		return inst, nil
	}
	for i, pending := range l.loading {
		if pending == name {
			chain := append(append([]string{}, l.loading[i:]...), name)
			return nil, &LoadError{Name: name, Chain: chain, Kind: ErrCircularDependency}
		}
	}
	factory, ok := l.registry.factory(name)
	if !ok {
		var chain []string
		if len(l.loading) > 0 {
			chain = append(append([]string{}, l.loading...), name)
		}
		return nil, &LoadError{Name: name, Chain: chain, Kind: ErrRecipeNotFound}
	}

	l.loading = append(l.loading, name)
	inst, err := factory(l.ctx)
	l.loading = l.loading[:len(l.loading)-1]
	if err != nil {
		return nil, fmt.Errorf("recipe: build %s: %w", name, err)
	}
	if inst == nil {
		return nil, fmt.Errorf("recipe: factory for %s returned nil", name)
	}
	if err := inst.Info().Validate(); err != nil {
		return nil, err
	}
	l.instances[name] = inst
	return inst, nil
}

// Loaded reports whether name has been instantiated in this run.
func (l *Loader) Loaded(name string) bool {
	_, ok := l.instances[name]
	return ok
}

// Installed loads name and reports its install state.
func (l *Loader) Installed(name string) (bool, error) {
	inst, err := l.Load(name)
	if err != nil {
		return false, err
	}
	return inst.Installed()
}
