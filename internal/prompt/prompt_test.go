package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModelKeys(t *testing.T) {
	cases := []struct {
		name    string
		keys    []tea.KeyMsg
		value   bool
		aborted bool
	}{
		{"yes", []tea.KeyMsg{runes("y")}, true, false},
		{"no", []tea.KeyMsg{runes("n")}, false, false},
		{"enter keeps default", []tea.KeyMsg{{Type: tea.KeyEnter}}, false, false},
		{"toggle then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, true, false},
		{"ctrl+c aborts", []tea.KeyMsg{{Type: tea.KeyCtrlC}}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var model tea.Model = newConfirmModel("Do you want to use Sidekiq for background job processing?")
			for _, key := range tc.keys {
				model, _ = model.Update(key)
			}
			got := model.(confirmModel)
			if got.value != tc.value || got.aborted != tc.aborted {
				t.Fatalf("value=%v aborted=%v, want %v/%v", got.value, got.aborted, tc.value, tc.aborted)
			}
			if !got.done && !got.aborted {
				t.Fatalf("model should be finished")
			}
		})
	}
}

func TestConfirmModelView(t *testing.T) {
	model := newConfirmModel("Use Sidekiq?")
	if view := model.View(); view == "" {
		t.Fatalf("expected rendered question")
	}
	finished, _ := model.Update(runes("y"))
	if view := finished.View(); view != "" {
		t.Fatalf("finished prompt should clear, got %q", view)
	}
}

func TestSelectModelPicksHighlightedOption(t *testing.T) {
	options := []Option{
		{Label: "None", Value: "none"},
		{Label: "SendGrid", Value: "sendgrid"},
		{Label: "Amazon SES", Value: "aws_ses"},
	}
	var model tea.Model = newSelectModel("Which email service do you want to use?", options)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := model.(selectModel)
	if got.choice != "sendgrid" || !got.done {
		t.Fatalf("choice = %q done=%v", got.choice, got.done)
	}
}

func TestSelectModelEscAborts(t *testing.T) {
	var model tea.Model = newSelectModel("Pick", []Option{{Value: "a"}})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !model.(selectModel).aborted {
		t.Fatalf("esc should abort")
	}
}

func TestScriptedRecordsQuestions(t *testing.T) {
	s := &Scripted{Confirms: []bool{true}, Selections: []string{"aws_ses"}}
	ok, err := s.Confirm("Deploy to heroku?")
	if err != nil || !ok {
		t.Fatalf("confirm: %v %v", ok, err)
	}
	choice, err := s.Select("Email?", []Option{{Value: "none"}, {Value: "aws_ses"}})
	if err != nil || choice != "aws_ses" {
		t.Fatalf("select: %q %v", choice, err)
	}
	if len(s.Asked) != 2 {
		t.Fatalf("asked = %v", s.Asked)
	}
	if _, err := s.Confirm("again?"); !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("expected ErrNoAnswer, got %v", err)
	}
}

func TestScriptedRejectsUnknownChoice(t *testing.T) {
	s := &Scripted{Selections: []string{"mailgun"}}
	if _, err := s.Select("Email?", []Option{{Value: "none"}}); err == nil {
		t.Fatalf("expected error for unknown choice")
	}
}

func TestAssumeYes(t *testing.T) {
	var p Prompter = AssumeYes{}
	if ok, _ := p.Confirm("anything"); !ok {
		t.Fatalf("AssumeYes must confirm")
	}
	if choice, _ := p.Select("pick", []Option{{Value: "first"}, {Value: "second"}}); choice != "first" {
		t.Fatalf("choice = %q", choice)
	}
}
