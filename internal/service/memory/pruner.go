package memory

import (
	"context"
	"time"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	DefaultPruneInterval = 10 * time.Minute
	DefaultHistoryLimit  = 20
)

// Pruner periodically trims every session's conversation log to its newest
// turns.
type Pruner struct {
	repo     core.TurnRepository
	interval time.Duration
	keep     int
}

func NewPruner(repo core.TurnRepository, interval time.Duration, keep int) *Pruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	if keep <= 0 {
		keep = DefaultHistoryLimit
	}
	return &Pruner{
		repo:     repo,
		interval: interval,
		keep:     keep,
	}
}

func (p *Pruner) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "pruner")
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", p.interval).Int("keep", p.keep).Msg("starting history pruner")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down history pruner")
			return nil
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) Shutdown(ctx context.Context) error {
	return nil
}

func (p *Pruner) prune(ctx context.Context) {
	logger := log.FromCtx(ctx)

	removed, err := p.repo.TrimTurns(ctx, p.keep)
	if err != nil {
		logger.Error().Err(err).Msg("history prune failed")
		return
	}
	if removed > 0 {
		logger.Debug().Int64("removed", removed).Msg("history pruned")
	}
}
