package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/musage/pkg/log"
)

type SearchConfig struct {
	Endpoint   string `env:"MUSAGE_SEARCH_URL" envDefault:"https://html.duckduckgo.com/html/"`
	ProbeURL   string `env:"MUSAGE_PROBE_URL" envDefault:"https://duckduckgo.com/"`
	UserAgent  string `env:"MUSAGE_USER_AGENT" envDefault:"Mozilla/5.0 (compatible; MuSage/0.1; +https://github.com/sandevgo/musage)"`
	MaxResults int    `env:"MUSAGE_SEARCH_MAX_RESULTS" envDefault:"5"`
	FetchLimit int    `env:"MUSAGE_FETCH_LIMIT" envDefault:"3"`
	// Scraped page text beyond this many characters is cut off.
	MaxContentLength int           `env:"MUSAGE_MAX_CONTENT_LENGTH" envDefault:"5000"`
	Timeout          time.Duration `env:"MUSAGE_REQUEST_TIMEOUT" envDefault:"10s"`
	RateLimit        time.Duration `env:"MUSAGE_RATE_LIMIT" envDefault:"1s"`
	MaxRetries       int           `env:"MUSAGE_MAX_RETRIES" envDefault:"3"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}
