package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/musage/pkg/log"
)

type HTTPConfig struct {
	Addr            string        `env:"MUSAGE_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	ReadTimeout     time.Duration `env:"MUSAGE_HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"MUSAGE_HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	MaxMessageBytes int64         `env:"MUSAGE_HTTP_MAX_MESSAGE_BYTES" envDefault:"16384"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
