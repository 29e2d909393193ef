package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInstallHerokuUnattended(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "install", "heroku", "--yes", "--project", dir)
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "heroku") {
		t.Fatalf("expected outcome line, got:\n%s", out)
	}
	for _, rel := range []string{"app.json", "Procfile", ".recipekit/config.yaml", ".recipekit/state/answers.yml"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}

	out, err = execute(t, "answers", "--project", dir)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if !strings.Contains(out, "heroku: true") {
		t.Fatalf("answers output:\n%s", out)
	}

	out, err = execute(t, "log", "--project", dir, "-n", "50")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "action heroku/setup_heroku completed") {
		t.Fatalf("log output:\n%s", out)
	}
}

func TestInstallAnswerFlagSeedsStore(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "install", "heroku", "--project", dir, "--answer", "heroku=no")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.json")); !os.IsNotExist(err) {
		t.Fatalf("declined heroku must not write app.json")
	}
	out, _ = execute(t, "answers", "--project", dir)
	if !strings.Contains(out, "heroku: false") {
		t.Fatalf("answers output:\n%s", out)
	}
}

func TestInstallUnknownRecipe(t *testing.T) {
	if _, err := execute(t, "install", "sidekiq", "--yes", "--project", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown recipe")
	}
}

func TestStatusListsBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Gemfile"), []byte("gem 'sidekiq'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "status", "--project", dir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, name := range []string{"background_processor", "heroku", "mailer"} {
		if !strings.Contains(out, name) {
			t.Fatalf("status missing %s:\n%s", name, out)
		}
	}
}

func TestStatusShowsStoredDecisions(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "install", "heroku", "--yes", "--project", dir); err != nil {
		t.Fatalf("install: %v", err)
	}
	out, err := execute(t, "status", "--project", dir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"heroku=true", "email_service=undecided", "background_processor=undecided"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q:\n%s", want, out)
		}
	}
}

func TestKeyValueFlag(t *testing.T) {
	kv := keyValueFlag{}
	if err := kv.Set("email_service=aws_ses"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("heroku=yes"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("missing-separator"); err == nil {
		t.Fatalf("expected error without '='")
	}
	if err := kv.Set("=value"); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if got := kv.String(); got != "email_service=aws_ses, heroku=yes" {
		t.Fatalf("String() = %q", got)
	}
}
