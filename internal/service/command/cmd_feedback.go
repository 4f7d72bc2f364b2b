package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

var errNothingToRate = errors.New("there is no answer to rate yet")

type FeedbackRecorder interface {
	Feedback(ctx context.Context, query, answer string, helpful bool, comment string) (bool, error)
}

// FeedbackCommand rates the previous answer of the session. It serves both
// /good and /bad.
type FeedbackCommand struct {
	helpful  bool
	history  core.ConversationLog
	recorder FeedbackRecorder
}

func NewGoodCommand(history core.ConversationLog, recorder FeedbackRecorder) *FeedbackCommand {
	return &FeedbackCommand{helpful: true, history: history, recorder: recorder}
}

func NewBadCommand(history core.ConversationLog, recorder FeedbackRecorder) *FeedbackCommand {
	return &FeedbackCommand{helpful: false, history: history, recorder: recorder}
}

func (c *FeedbackCommand) Name() string {
	if c.helpful {
		return "good"
	}
	return "bad"
}

func (c *FeedbackCommand) Usage() string {
	if c.helpful {
		return "/good"
	}
	return "/bad [what was wrong]"
}

func (c *FeedbackCommand) Description() string {
	if c.helpful {
		return "Mark the last answer as helpful"
	}
	return "Mark the last answer as unhelpful, optionally with a correction"
}

func (c *FeedbackCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	query, answer, err := c.lastExchange(ctx, sessionID)
	if err != nil {
		return "", err
	}

	learned, err := c.recorder.Feedback(ctx, query, answer, c.helpful, strings.Join(args, " "))
	if err != nil {
		return "", fmt.Errorf("failed to record feedback: %w", err)
	}

	switch {
	case c.helpful && learned:
		return formatter.Success("Thanks! I'll remember this answer."), nil
	case c.helpful:
		return formatter.Success("Thanks for the feedback!"), nil
	case learned:
		return formatter.Success("Thanks, I've learned the correction."), nil
	default:
		return formatter.Combine(
			formatter.Success("Feedback recorded. I'll try to improve!"),
			formatter.Tip("include the right answer, e.g. `/bad the answer is ...`"),
		), nil
	}
}

// lastExchange finds the newest assistant turn and the user turn before it.
func (c *FeedbackCommand) lastExchange(ctx context.Context, sessionID string) (string, string, error) {
	turns, err := c.history.Recent(ctx, sessionID, 2)
	if err != nil {
		return "", "", fmt.Errorf("failed to read history: %w", err)
	}
	if len(turns) < 2 || turns[0].Role != core.RoleUser || turns[1].Role != core.RoleAssistant {
		return "", "", errNothingToRate
	}
	return turns[0].Content, turns[1].Content, nil
}
