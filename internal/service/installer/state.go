package installer

import (
	"github.com/sandevgo/musage/internal/config"
)

// InstallState collects the answers of the wizard. Zero fields fall back to
// their defaults when written out.
type InstallState struct {
	App      config.AppConfig
	Telegram config.TelegramConfig
	HTTP     config.HTTPConfig
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
