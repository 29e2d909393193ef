// Package compose merges services and volumes into a docker-compose file
// without disturbing entries it does not own.
package compose

import (
	"errors"
	"io/fs"

	"github.com/kingrea/recipekit/internal/mutate"
)

// DefaultFile is the compose document recipes edit.
const DefaultFile = "docker-compose.yml"

const (
	servicesSection = "services"
	volumesSection  = "volumes"
)

// Document is a compose file inside a project tree.
type Document struct {
	tree *mutate.Tree
	path string
}

// Open addresses the compose file at rel. The file is read on every call so
// edits made by other recipes in the same run are observed.
func Open(tree *mutate.Tree, rel string) *Document {
	if rel == "" {
		rel = DefaultFile
	}
	return &Document{tree: tree, path: rel}
}

// Path returns the project-relative file name.
func (d *Document) Path() string {
	return d.path
}

// AddService appends a service named name with the given YAML definition
// unless the document already declares it.
func (d *Document) AddService(name, definition string) (bool, error) {
	return d.add(servicesSection, name, definition)
}

// AddVolume declares a named volume unless it already exists.
func (d *Document) AddVolume(name string) (bool, error) {
	return d.add(volumesSection, name, "")
}

// Services lists declared service names in document order.
func (d *Document) Services() ([]string, error) {
	return d.keys(servicesSection)
}

// Volumes lists declared volume names in document order.
func (d *Document) Volumes() ([]string, error) {
	return d.keys(volumesSection)
}

func (d *Document) add(section, name, definition string) (bool, error) {
	content, err := d.read()
	if err != nil {
		return false, err
	}
	updated, changed, err := AddEntry(content, section, name, definition)
	if err != nil || !changed {
		return false, err
	}
	if err := d.tree.Replace(d.path, string(updated)); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Document) keys(section string) ([]string, error) {
	content, err := d.read()
	if err != nil {
		return nil, err
	}
	return Keys(content, section)
}

func (d *Document) read() ([]byte, error) {
	content, err := d.tree.Read(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &mutate.Error{Op: "compose", Path: d.path, Kind: mutate.ErrFileNotWritable, Err: err}
	}
	return []byte(content), nil
}
