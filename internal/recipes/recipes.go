package recipes

import (
	"github.com/kingrea/recipekit/internal/recipe"
	"github.com/kingrea/recipekit/internal/recipes/background_processor"
	"github.com/kingrea/recipekit/internal/recipes/heroku"
	"github.com/kingrea/recipekit/internal/recipes/mailer"
)

// RegisterBuiltins installs all of the built-in recipe factories into the
// provided registry.
func RegisterBuiltins(reg *recipe.Registry) {
	if reg == nil {
		return
	}
	mailer.Register(reg)
	heroku.Register(reg)
	background_processor.Register(reg)
}
