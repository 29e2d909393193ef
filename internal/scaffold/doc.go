// Package scaffold runs a list of recipes against one project. Each run gets
// its own recipe context and loader, so instances and completed action
// blocks never leak between runs. Recipes install dependencies first; a
// recipe that fails takes its dependents down with it while unrelated
// recipes carry on.
package scaffold
