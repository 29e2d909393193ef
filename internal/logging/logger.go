package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/recipekit/internal/config"
)

// FileName is the debug log kept under .recipekit/logs.
const FileName = "recipekit.log"

// Logger appends timestamped lines to .recipekit/logs/recipekit.log so users
// can inspect what a scaffolding run did after the terminal output is gone.
// Loggers returned by ForRun share the file and tag each line with the run ID.
type Logger struct {
	file  *os.File
	run   string
	mu    *sync.Mutex
	owner bool
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.StateDirName, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, mu: &sync.Mutex{}, owner: true}, nil
}

// ForRun returns a logger writing to the same file whose lines carry runID,
// matching the run column of the action logbook.
func (l *Logger) ForRun(runID string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{file: l.file, run: strings.TrimSpace(runID), mu: l.mu}
}

// Run returns the run ID this logger tags lines with, if any.
func (l *Logger) Run() string {
	if l == nil {
		return ""
	}
	return l.run
}

// Close releases the file handle. Run loggers leave the shared file open.
func (l *Logger) Close() error {
	if l == nil || l.file == nil || !l.owner {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	prefix := "[" + time.Now().Format(time.RFC3339) + "]"
	if l.run != "" {
		prefix += " [" + l.run + "]"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "%s %s\n", prefix, line)
}
