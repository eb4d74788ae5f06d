package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Choice struct {
	Label string
	Value string
}

// ChoiceStep stores the selected Value under EnvKey.
type ChoiceStep struct {
	Title   string
	EnvKey  string
	Choices []Choice
	When    func(*InstallState) bool
	cursor  int
}

func (s *ChoiceStep) Init() tea.Cmd { return nil }

func (s *ChoiceStep) Skip(state *InstallState) bool {
	return s.When != nil && !s.When(state)
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.Choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.EnvKey] = s.Choices[s.cursor].Value
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(_ *InstallState) string {
	var b strings.Builder
	b.WriteString(s.Title + "\n\n")
	for i, c := range s.Choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+c.Label) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+c.Label) + "\n")
		}
	}
	return b.String()
}

// InputStep stores the typed value under EnvKey. Empty answers are accepted
// only when Optional is set, and then nothing is stored.
type InputStep struct {
	Title       string
	EnvKey      string
	Placeholder string
	Secret      bool
	Optional    bool
	When        func(*InstallState) bool

	input   textinput.Model
	started bool
	err     string
}

func (s *InputStep) Init() tea.Cmd {
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 48
	s.input.Placeholder = s.Placeholder
	if s.Secret {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
	s.started = true
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.When != nil && !s.When(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	if !s.started {
		s.Init()
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.Optional {
			s.err = "a value is required"
			return s, nil
		}
		if val != "" {
			state.EnvVars[s.EnvKey] = val
		}
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(_ *InstallState) string {
	hint := ""
	if s.Optional {
		hint = " (optional, press enter to skip)"
	}
	view := fmt.Sprintf("%s%s:\n\n%s\n", s.Title, hint, s.input.View())
	if s.err != "" {
		view += "\n" + selStyle.Render(s.err) + "\n"
	}
	return view
}
