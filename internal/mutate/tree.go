// Package mutate implements the file edits recipes apply to a project tree.
// Every primitive except RegexTransformAll (and forced renders or copies) is
// a no-op when its effect is already present, so an interrupted run can be
// repeated safely.
package mutate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

// Tree addresses files relative to a project root.
type Tree struct {
	root string
}

// NewTree roots a tree at dir.
func NewTree(dir string) *Tree {
	return &Tree{root: filepath.Clean(dir)}
}

// Root returns the project directory.
func (t *Tree) Root() string {
	return t.root
}

// Path resolves a project-relative path.
func (t *Tree) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists.
func (t *Tree) Exists(rel string) bool {
	_, err := os.Stat(t.Path(rel))
	return err == nil
}

// Read returns the file contents. Missing files surface fs.ErrNotExist.
func (t *Tree) Read(rel string) (string, error) {
	data, err := os.ReadFile(t.Path(rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Contains reports whether rel holds text verbatim. Missing files do not.
func (t *Tree) Contains(rel, text string) (bool, error) {
	content, found, err := t.readOptional("contains", rel)
	if err != nil || !found {
		return false, err
	}
	return strings.Contains(content, text), nil
}

// AppendIfAbsent appends text unless the file already contains it. Missing
// files are created. The bool result reports whether the file changed.
func (t *Tree) AppendIfAbsent(rel, text string) (bool, error) {
	content, _, err := t.readOptional("append", rel)
	if err != nil {
		return false, err
	}
	if strings.Contains(content, text) {
		return false, nil
	}
	if err := t.write("append", rel, content+text); err != nil {
		return false, err
	}
	return true, nil
}

// InsertAfterAnchor inserts text right after the first occurrence of anchor.
// Nothing is written when text already follows any occurrence of anchor.
// A missing anchor fails with ErrAnchorNotFound and leaves the file untouched.
func (t *Tree) InsertAfterAnchor(rel, anchor, text string) (bool, error) {
	if anchor == "" {
		return false, fmt.Errorf("mutate: insert_after_anchor %s: anchor is required", rel)
	}
	content, found, err := t.readOptional("insert_after_anchor", rel)
	if err != nil {
		return false, err
	}
	if !found {
		return false, &Error{Op: "insert_after_anchor", Path: rel, Kind: ErrAnchorNotFound, Detail: fmt.Sprintf("%q", anchor), Err: fs.ErrNotExist}
	}
	first := strings.Index(content, anchor)
	if first < 0 {
		return false, &Error{Op: "insert_after_anchor", Path: rel, Kind: ErrAnchorNotFound, Detail: fmt.Sprintf("%q", anchor)}
	}
	for offset := first; offset >= 0; {
		after := offset + len(anchor)
		if strings.HasPrefix(content[after:], text) {
			return false, nil
		}
		next := strings.Index(content[after:], anchor)
		if next < 0 {
			break
		}
		offset = after + next
	}
	at := first + len(anchor)
	updated := content[:at] + text + content[at:]
	if err := t.write("insert_after_anchor", rel, updated); err != nil {
		return false, err
	}
	return true, nil
}

// RegexTransformAll replaces every match of pattern with transform(match).
// It has no presence check: running it twice applies transform twice, so
// callers must guard re-application themselves.
func (t *Tree) RegexTransformAll(rel string, pattern *regexp.Regexp, transform func(string) string) error {
	if pattern == nil || transform == nil {
		return fmt.Errorf("mutate: regex_transform_all %s: pattern and transform are required", rel)
	}
	content, err := t.Read(rel)
	if err != nil {
		return ioError("regex_transform_all", rel, err)
	}
	updated := pattern.ReplaceAllStringFunc(content, transform)
	if updated == content {
		return nil
	}
	return t.write("regex_transform_all", rel, updated)
}

// RenderTemplate executes the template name from src with vars and writes the
// result to dest. Without force an existing dest is left alone. Missing map
// keys are errors.
func (t *Tree) RenderTemplate(src fs.FS, name, dest string, vars any, force bool) (bool, error) {
	if !force && t.Exists(dest) {
		return false, nil
	}
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return false, &Error{Op: "render_template", Path: dest, Kind: ErrTemplateRender, Detail: name, Err: err}
	}
	tmpl, err := template.New(filepath.Base(name)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return false, &Error{Op: "render_template", Path: dest, Kind: ErrTemplateRender, Detail: name, Err: err}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return false, &Error{Op: "render_template", Path: dest, Kind: ErrTemplateRender, Detail: name, Err: err}
	}
	if err := t.write("render_template", dest, buf.String()); err != nil {
		return false, err
	}
	return true, nil
}

// CopyFile copies name from src to dest verbatim. Without force an existing
// dest is left alone.
func (t *Tree) CopyFile(src fs.FS, name, dest string, force bool) (bool, error) {
	if !force && t.Exists(dest) {
		return false, nil
	}
	data, err := fs.ReadFile(src, name)
	if err != nil {
		return false, ioError("copy_file", name, err)
	}
	if err := t.write("copy_file", dest, string(data)); err != nil {
		return false, err
	}
	return true, nil
}

// Replace overwrites rel with content. Structured editors that compute the
// whole new document use it.
func (t *Tree) Replace(rel, content string) error {
	return t.write("replace", rel, content)
}

func (t *Tree) readOptional(op, rel string) (string, bool, error) {
	content, err := t.Read(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, ioError(op, rel, err)
	}
	return content, true, nil
}

// write replaces rel through a temp file and rename so a failed write never
// leaves a truncated target behind.
func (t *Tree) write(op, rel, content string) error {
	path := t.Path(rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError(op, rel, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError(op, rel, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ioError(op, rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ioError(op, rel, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return ioError(op, rel, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return ioError(op, rel, err)
	}
	return nil
}
