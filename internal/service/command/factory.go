package command

import (
	"github.com/sandevgo/musage/internal/core"
)

// Deps are what the built-in commands act on.
type Deps struct {
	Stats    core.StatsProvider
	History  core.ConversationLog
	Learning interface {
		FeedbackRecorder
		LearningStatsProvider
	}
	Resetter Resetter
}

func NewCommands(d Deps) []core.Command {
	return []core.Command{
		NewStatsCommand(d.Stats),
		NewLearnStatsCommand(d.Learning),
		NewGoodCommand(d.History, d.Learning),
		NewBadCommand(d.History, d.Learning),
		NewHistoryCommand(d.History),
		NewClearCommand(d.Resetter),
	}
}
