package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Padding(0, 1)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Terminal runs each question as a small bubbletea program.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal builds a prompter reading keys from in and drawing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Confirm asks a yes/no question. The default answer is no.
func (t *Terminal) Confirm(question string) (bool, error) {
	final, err := t.run(newConfirmModel(question))
	if err != nil {
		return false, err
	}
	model, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("prompt: unexpected model %T", final)
	}
	if model.aborted {
		return false, ErrAborted
	}
	return model.value, nil
}

// Select asks the user to pick one option and returns its value.
func (t *Terminal) Select(question string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt: %q has no options", question)
	}
	final, err := t.run(newSelectModel(question, options))
	if err != nil {
		return "", err
	}
	model, ok := final.(selectModel)
	if !ok {
		return "", fmt.Errorf("prompt: unexpected model %T", final)
	}
	if model.aborted {
		return "", ErrAborted
	}
	return model.choice, nil
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// confirmModel is a two-button yes/no question.
type confirmModel struct {
	question string
	value    bool
	done     bool
	aborted  bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.value = !m.value
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	yes, no := idleStyle.Render("Yes"), activeStyle.Render("No")
	if m.value {
		yes, no = activeStyle.Render("Yes"), idleStyle.Render("No")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		questionStyle.Render(m.question),
		lipgloss.JoinHorizontal(lipgloss.Top, yes, " ", no),
		hintStyle.Render("y/n to answer · ←/→ to toggle · enter to confirm"),
	) + "\n"
}

// optionItem implements list.Item for select prompts.
type optionItem struct {
	opt Option
}

func (i optionItem) Title() string       { return i.opt.Label }
func (i optionItem) Description() string { return i.opt.Value }
func (i optionItem) FilterValue() string { return i.opt.Label }

// selectModel wraps a bubbles list for pick-one questions.
type selectModel struct {
	list    list.Model
	choice  string
	done    bool
	aborted bool
}

func newSelectModel(question string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	width := len(question)
	for i, opt := range options {
		if strings.TrimSpace(opt.Label) == "" {
			opt.Label = opt.Value
		}
		items[i] = optionItem{opt: opt}
		if len(opt.Label) > width {
			width = len(opt.Label)
		}
	}
	menu := list.New(items, list.NewDefaultDelegate(), width+8, len(items)*3+6)
	menu.Title = question
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	return selectModel{list: menu}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.choice = item.opt.Value
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.list.View()
}
