package mutate

import (
	"fmt"
	"regexp"
	"strings"
)

// Project files the Rails helpers edit.
const (
	Gemfile         = "Gemfile"
	ApplicationFile = "config/application.rb"
	EnvironmentsDir = "config/environments"
)

// Anchors the Rails helpers insert after.
const (
	ApplicationAnchor = "class Application < Rails::Application\n"
	EnvironmentAnchor = "Rails.application.configure do\n"
)

var gemDeclaration = regexp.MustCompile(`(?m)^\s*gem\s+['"]([^'"]+)['"]`)

// GemExists reports whether any gem declared in the Gemfile matches pattern.
// A project without a Gemfile declares nothing.
func (t *Tree) GemExists(pattern *regexp.Regexp) (bool, error) {
	content, found, err := t.readOptional("gem_exists", Gemfile)
	if err != nil || !found {
		return false, err
	}
	for _, match := range gemDeclaration.FindAllStringSubmatch(content, -1) {
		if pattern.MatchString(match[1]) {
			return true, nil
		}
	}
	return false, nil
}

// GatherGem declares gem name in the Gemfile unless it is already declared.
func (t *Tree) GatherGem(name string, constraints ...string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("mutate: gather_gem: name is required")
	}
	exact := regexp.MustCompile("^" + regexp.QuoteMeta(name) + "$")
	exists, err := t.GemExists(exact)
	if err != nil || exists {
		return false, err
	}
	line := fmt.Sprintf("gem '%s'", name)
	for _, constraint := range constraints {
		line += fmt.Sprintf(", '%s'", constraint)
	}
	content, _, err := t.readOptional("gather_gem", Gemfile)
	if err != nil {
		return false, err
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := t.write("gather_gem", Gemfile, content+line+"\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Application adds a configuration line to config/application.rb, or to
// config/environments/<env>.rb when env is set.
func (t *Tree) Application(line, env string) (bool, error) {
	line = strings.TrimSpace(line)
	path, anchor, text := ApplicationFile, ApplicationAnchor, "    "+line+"\n"
	if env = strings.TrimSpace(env); env != "" {
		path, anchor, text = EnvironmentsDir+"/"+env+".rb", EnvironmentAnchor, "  "+line+"\n"
	}
	// Later insertions push earlier ones away from the anchor.
	if present, err := t.Contains(path, text); err != nil || present {
		return false, err
	}
	return t.InsertAfterAnchor(path, anchor, text)
}
