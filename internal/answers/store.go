// Package answers persists the decisions recipes make so a re-run of the
// scaffolder reuses earlier choices instead of prompting again.
package answers

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrCorruptAnswerStore indicates the persisted answers could not be decoded.
var ErrCorruptAnswerStore = errors.New("answers: corrupt answer store")

// CorruptError wraps ErrCorruptAnswerStore with the offending path.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrCorruptAnswerStore.Error(), e.Path, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorruptAnswerStore, e.Err}
}

// Store maps decision keys to values. Every Set is written through to disk
// when the store is backed by a file.
type Store struct {
	path   string
	values map[string]Value
}

// NewMemory returns a store that is never persisted.
func NewMemory() *Store {
	return &Store{values: map[string]Value{}}
}

// Open loads the answers file at path. A missing file yields an empty store;
// an unreadable or malformed file is reported as ErrCorruptAnswerStore.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("answers: path is required")
	}
	store := &Store{path: filepath.Clean(path), values: map[string]Value{}}
	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, &CorruptError{Path: store.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return store, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptError{Path: store.path, Err: err}
	}
	for key, value := range raw {
		parsed, err := fromRaw(value)
		if err != nil {
			return nil, &CorruptError{Path: store.path, Err: fmt.Errorf("key %s: %w", key, err)}
		}
		store.values[key] = parsed
	}
	return store, nil
}

// Path returns the backing file, or "" for in-memory stores.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the decision for key, or Undecided.
func (s *Store) Get(key string) Value {
	if s == nil {
		return Undecided
	}
	return s.values[key]
}

// Set records value under key, replacing any earlier decision.
func (s *Store) Set(key string, value Value) error {
	if s == nil {
		return fmt.Errorf("answers: nil store")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("answers: key is required")
	}
	s.values[key] = value
	return s.save()
}

// Keys returns the recorded keys in lexical order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	raw := make(map[string]any, len(s.values))
	for key, value := range s.values {
		raw[key] = value.raw
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("answers: encode: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("answers: write %s: %w", s.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".answers-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
