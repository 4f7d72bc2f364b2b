package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	label string
	apply func(state *InstallState)
}

// ChoiceStep lets the user pick one of a few options with the arrow keys.
type ChoiceStep struct {
	title   string
	choices []choice
	cursor  int
}

// NewModeStep asks whether MuSage may use the internet.
func NewModeStep() Step {
	return &ChoiceStep{
		title: "How should MuSage answer questions?",
		choices: []choice{
			{label: "Online: search the web when I don't know", apply: func(s *InstallState) { s.App.Offline = false }},
			{label: "Offline: only built-in and learned knowledge", apply: func(s *InstallState) { s.App.Offline = true }},
		},
	}
}

// NewChannelStep selects the transports served by "musage start".
func NewChannelStep() Step {
	channels := func(telegram, http bool) func(*InstallState) {
		return func(s *InstallState) {
			s.App.EnableTelegram = telegram
			s.App.EnableHTTP = http
		}
	}
	return &ChoiceStep{
		title: "Select your Chat Channel:",
		choices: []choice{
			{label: "Terminal only", apply: channels(false, false)},
			{label: "Telegram", apply: channels(true, false)},
			{label: "HTTP API", apply: channels(false, true)},
			{label: "Telegram and HTTP API", apply: channels(true, true)},
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.choices[s.cursor].apply(state)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
