package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text value. An empty answer keeps the
// default, or is rejected when the step is required.
type InputStep struct {
	title    string
	envKey   string
	def      string
	required bool
	input    textinput.Model
	skip     func(*InstallState) bool
}

func NewInputStep(title, envKey, placeholder string) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	return &InputStep{title: title, envKey: envKey, input: ti}
}

func (s *InputStep) Default(v string) *InputStep {
	s.def = v
	if s.input.Placeholder == "" {
		s.input.Placeholder = v
	}
	return s
}

func (s *InputStep) Required() *InputStep {
	s.required = true
	return s
}

func (s *InputStep) Secret() *InputStep {
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '*'
	return s
}

func (s *InputStep) When(cond func(*InstallState) bool) *InputStep {
	s.skip = func(st *InstallState) bool { return !cond(st) }
	return s
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.def
		}
		if val == "" && s.required {
			return s, nil
		}
		if val != "" {
			state.EnvVars[s.envKey] = val
		}
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := "(press enter to confirm)"
	if !s.required {
		hint = "(press enter to keep the default)"
	}
	return s.title + ":\n\n" + s.input.View() + "\n\n" + hint + "\n"
}
