package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/musage/pkg/log"
)

type SynthConfig struct {
	MaxSources      int     `env:"MUSAGE_SYNTH_MAX_SOURCES" envDefault:"4"`
	ChunkLimit      int     `env:"MUSAGE_SYNTH_CHUNK_LIMIT" envDefault:"1800"`
	AcceptThreshold float64 `env:"MUSAGE_SYNTH_ACCEPT_THRESHOLD" envDefault:"0.78"`
	SimilarityFloor float64 `env:"MUSAGE_CACHE_SIMILARITY_FLOOR" envDefault:"0.3"`
	CacheResults    int     `env:"MUSAGE_CACHE_RESULTS" envDefault:"3"`
}

func NewSynthConfig(ctx context.Context) *SynthConfig {
	c := &SynthConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Synth config")
	}
	return c
}
