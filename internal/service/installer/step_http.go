package installer

import (
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultHTTPAddr = "127.0.0.1:8080"

// HTTPAddrStep asks where the HTTP API listens. An empty answer keeps the
// default.
type HTTPAddrStep struct {
	input textinput.Model
	err   string
}

func NewHTTPAddrStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Width = 40
	ti.Placeholder = defaultHTTPAddr
	return &HTTPAddrStep{input: ti}
}

func (s *HTTPAddrStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skip)
}

func (s *HTTPAddrStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableHTTP {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		addr := strings.TrimSpace(s.input.Value())
		if addr == "" {
			return nil, nil
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			s.err = "Use host:port, for example " + defaultHTTPAddr
			return s, cmd
		}
		state.HTTP.Addr = addr
		return nil, nil
	}
	return s, cmd
}

func (s *HTTPAddrStep) View(state *InstallState) string {
	view := "Where should the HTTP API listen?\n\n" + s.input.View() + "\n\n"
	if s.err != "" {
		view += errorStyle.Render(s.err) + "\n\n"
	}
	return view + "(press enter to keep the default)\n"
}
