package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/musage/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"MUSAGE_RUNTIME_PATH" envDefault:".musage"`
	// Optional YAML document overriding the embedded dialogue rules.
	RulesPath string `env:"MUSAGE_RULES_PATH"`
	Offline   bool   `env:"MUSAGE_OFFLINE" envDefault:"false"`

	// Transport Flags
	EnableTelegram bool `env:"MUSAGE_ENABLE_TELEGRAM" envDefault:"false"`
	EnableHTTP     bool `env:"MUSAGE_ENABLE_HTTP" envDefault:"false"`

	// Conversation Memory
	ContextTurns  int           `env:"MUSAGE_CONTEXT_TURNS" envDefault:"6"`
	HistoryLimit  int           `env:"MUSAGE_HISTORY_LIMIT" envDefault:"20"`
	PruneInterval time.Duration `env:"MUSAGE_PRUNE_INTERVAL" envDefault:"10m"`
	FeedbackEvery int           `env:"MUSAGE_FEEDBACK_EVERY" envDefault:"5"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "musage.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
