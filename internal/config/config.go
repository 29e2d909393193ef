// internal/config/config.go
//
// This package handles configuration and the .recipekit directory structure.
// Every project that recipekit scaffolds gets a .recipekit/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// StateDirName is the name of the directory we create in each project
	StateDirName = ".recipekit"

	defaultAnswersFile = "answers.yml"
)

// DefaultRecipes is the install order used when config.yaml does not list one.
var DefaultRecipes = []string{"mailer", "heroku", "background_processor"}

const defaultProjectConfigYAML = `# recipekit project configuration
version: 1

# Recipes to install, in order.
recipes:
  - mailer
  - heroku
  - background_processor

# Where decisions are remembered between runs (relative to .recipekit/state).
answers_file: answers.yml
`

// ProjectConfig models .recipekit/config.yaml.
type ProjectConfig struct {
	Version     int      `yaml:"version"`
	Recipes     []string `yaml:"recipes"`
	AnswersFile string   `yaml:"answers_file,omitempty"`
}

// Config holds the runtime configuration for recipekit.
type Config struct {
	// ProjectDir is the project being scaffolded
	ProjectDir string

	// StateDir is ProjectDir/.recipekit
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .recipekit directory structure in the given project directory.
//
// Structure created:
// .recipekit/
// ├── config.yaml
// ├── logs/         <- recipekit.log and the action logbook
// └── state/        <- answers persisted between runs
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, StateDirName)
	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, StateDirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// AnswersDir returns the directory holding persisted decisions
func (c *Config) AnswersDir() string {
	return filepath.Join(c.StateDir, "state")
}

// AnswersPath returns the answers file location.
func (c *Config) AnswersPath() string {
	return resolvePath(c.AnswersDir(), c.Project.AnswersFile)
}

// LogbookPath returns the action logbook location.
func (c *Config) LogbookPath() string {
	return filepath.Join(c.LogsDir(), "actions.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// Recipes returns the configured install order.
func (c *Config) Recipes() []string {
	return append([]string{}, c.Project.Recipes...)
}

// SetRecipes replaces the install order and persists it to config.yaml.
func (c *Config) SetRecipes(names []string) error {
	c.Project.Recipes = append([]string{}, names...)
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:     1,
		Recipes:     append([]string{}, DefaultRecipes...),
		AnswersFile: defaultAnswersFile,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Recipes == nil {
		pc.Recipes = append([]string{}, DefaultRecipes...)
	}
	if strings.TrimSpace(pc.AnswersFile) == "" {
		pc.AnswersFile = defaultAnswersFile
	}
}

func (pc *ProjectConfig) normalize() {
	names := make([]string, 0, len(pc.Recipes))
	for _, name := range pc.Recipes {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	pc.Recipes = names
	pc.AnswersFile = strings.TrimSpace(pc.AnswersFile)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	for i, name := range pc.Recipes {
		if strings.ContainsAny(name, " /\\") {
			return fmt.Errorf("recipes[%d]: invalid recipe name %q", i, name)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
