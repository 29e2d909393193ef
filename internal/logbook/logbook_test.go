package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "actions.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("action install_sidekiq-%d completed", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"install_sidekiq-2", "install_sidekiq-3", "install_sidekiq-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestLevelsAreRecorded(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "actions.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Warn("skipped %s", "heroku")
	book.Error("action %s failed", "install_sidekiq")
	lines, total := book.Tail(10)
	if total != 2 {
		t.Fatalf("total = %d", total)
	}
	if !strings.Contains(lines[0], "WARN  skipped heroku") {
		t.Fatalf("warn line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR action install_sidekiq failed") {
		t.Fatalf("error line = %q", lines[1])
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("nil logbook tail = %v %d", lines, total)
	}
}

func TestForRunTagsEntries(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "actions.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("untagged")
	book.ForRun("run-1").Info("action install_sidekiq completed")
	lines, total := book.Tail(2)
	if total != 2 {
		t.Fatalf("total = %d", total)
	}
	if strings.Contains(lines[0], "[run-1]") {
		t.Fatalf("parent logbook must stay untagged: %q", lines[0])
	}
	if !strings.Contains(lines[1], "INFO  [run-1] action install_sidekiq completed") {
		t.Fatalf("tagged line = %q", lines[1])
	}
}
