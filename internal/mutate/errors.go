package mutate

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotWritable covers I/O failures reading or writing a target file.
	ErrFileNotWritable = errors.New("file not writable")
	// ErrAnchorNotFound means the text an insertion depends on is missing.
	ErrAnchorNotFound = errors.New("anchor not found")
	// ErrTemplateRender covers malformed templates and missing variables.
	ErrTemplateRender = errors.New("template render failed")
)

// Error annotates a primitive failure with the operation and project path.
type Error struct {
	Op     string
	Path   string
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("mutate: %s %s: %s", e.Op, e.Path, e.Kind.Error())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ioError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: ErrFileNotWritable, Err: err}
}
