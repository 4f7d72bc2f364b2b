package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/service/dialogue"
	"github.com/sandevgo/musage/internal/service/learning"
)

type LearningStatsProvider interface {
	Stats(ctx context.Context) (core.LearningStats, error)
}

type StatsCommand struct {
	stats core.StatsProvider
}

func NewStatsCommand(stats core.StatsProvider) *StatsCommand {
	return &StatsCommand{stats: stats}
}

func (c *StatsCommand) Name() string { return "stats" }
func (c *StatsCommand) Usage() string { return "/stats" }
func (c *StatsCommand) Description() string { return "Show knowledge base statistics" }

func (c *StatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	snap, err := c.stats.Snapshot(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to collect statistics: %w", err)
	}
	return dialogue.FormatStats(snap), nil
}

type LearnStatsCommand struct {
	stats LearningStatsProvider
}

func NewLearnStatsCommand(stats LearningStatsProvider) *LearnStatsCommand {
	return &LearnStatsCommand{stats: stats}
}

func (c *LearnStatsCommand) Name() string { return "learnstats" }
func (c *LearnStatsCommand) Usage() string { return "/learnstats" }
func (c *LearnStatsCommand) Description() string { return "Show learning and feedback statistics" }

func (c *LearnStatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	s, err := c.stats.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to collect learning statistics: %w", err)
	}
	return learning.FormatStats(s), nil
}
