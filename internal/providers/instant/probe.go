package instant

import (
	"context"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

// Available keeps the providers whose capability probe passes, preserving
// their order. Providers without a probe are always kept.
func Available(ctx context.Context, providers ...core.InstantAnswerer) []core.InstantAnswerer {
	logger := log.FromCtx(ctx)

	out := make([]core.InstantAnswerer, 0, len(providers))
	for _, p := range providers {
		if c, ok := p.(core.Capability); ok {
			if err := c.Available(ctx); err != nil {
				logger.Warn().Err(err).Str("provider", p.Name()).Msg("instant provider disabled")
				continue
			}
		}
		out = append(out, p)
	}
	logger.Debug().Int("count", len(out)).Msg("instant providers ready")
	return out
}
