// Package prompt asks the user the questions recipes need answered.
package prompt

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt: aborted")

// ErrNoAnswer is returned by Scripted when its queue runs dry.
var ErrNoAnswer = errors.New("prompt: no scripted answer")

// Option is one entry of an enumerated question.
type Option struct {
	Label string
	Value string
}

// Prompter is implemented by anything that can ask yes/no and pick-one
// questions.
type Prompter interface {
	Confirm(question string) (bool, error)
	Select(question string, options []Option) (string, error)
}

// Scripted answers from fixed queues and records every question it was asked.
type Scripted struct {
	Confirms   []bool
	Selections []string
	Asked      []string
}

// Confirm pops the next scripted yes/no answer.
func (s *Scripted) Confirm(question string) (bool, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Confirms) == 0 {
		return false, fmt.Errorf("%w for %q", ErrNoAnswer, question)
	}
	answer := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return answer, nil
}

// Select pops the next scripted choice. The choice must be one of options.
func (s *Scripted) Select(question string, options []Option) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Selections) == 0 {
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, question)
	}
	choice := s.Selections[0]
	s.Selections = s.Selections[1:]
	for _, opt := range options {
		if opt.Value == choice {
			return choice, nil
		}
	}
	return "", fmt.Errorf("prompt: %q is not an option for %q", choice, question)
}

// AssumeYes confirms every question and picks the first option. It backs the
// --yes flag for unattended runs.
type AssumeYes struct{}

// Confirm always answers yes.
func (AssumeYes) Confirm(string) (bool, error) { return true, nil }

// Select picks the first option.
func (AssumeYes) Select(question string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt: %q has no options", question)
	}
	return options[0].Value, nil
}
