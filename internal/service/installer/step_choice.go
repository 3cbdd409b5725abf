package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	value string
	label string
}

// ChoiceStep picks one value from a fixed list with the arrow keys.
type ChoiceStep struct {
	title   string
	envKey  string
	choices []choice
	cursor  int
	skip    func(*InstallState) bool
}

func NewChoiceStep(title, envKey string, choices []choice) *ChoiceStep {
	return &ChoiceStep{title: title, envKey: envKey, choices: choices}
}

// When makes the step run only if cond holds for the collected state.
func (s *ChoiceStep) When(cond func(*InstallState) bool) *ChoiceStep {
	s.skip = func(st *InstallState) bool { return !cond(st) }
	return s
}

func (s *ChoiceStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.envKey] = s.choices[s.cursor].value
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + ":\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("> %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
