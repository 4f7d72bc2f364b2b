package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/pkg/env"
)

var ErrEnvExists = errors.New(".env file already exists")

// WriteEnv renders state, plus the defaults of every other setting, into
// the .env file at path. An existing file is kept unless overwrite is set.
func WriteEnv(path string, state *InstallState, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w at %s", ErrEnvExists, path)
	}

	content, err := env.MarshalEnv(
		&state.App,
		&state.Telegram,
		&state.HTTP,
		&config.SearchConfig{},
		&config.SynthConfig{},
	)
	if err != nil {
		return fmt.Errorf("failed to render .env: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}
	return nil
}

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	path      string
	overwrite bool
	err       error
	saved     bool
}

func NewSaveEnvStep(path string, overwrite bool) Step {
	return &SaveEnvStep{path: path, overwrite: overwrite}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return skip
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if err := WriteEnv(s.path, state, s.overwrite); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}
