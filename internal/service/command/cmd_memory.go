package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

const (
	defaultHistoryTurns = 10
	historyPreviewRunes = 120
)

type Resetter interface {
	Reset(ctx context.Context, sessionID string) error
}

type ClearCommand struct {
	resetter Resetter
}

func NewClearCommand(resetter Resetter) *ClearCommand {
	return &ClearCommand{resetter: resetter}
}

func (c *ClearCommand) Name() string { return "clear" }
func (c *ClearCommand) Usage() string { return "/clear" }
func (c *ClearCommand) Description() string { return "Clear stored knowledge and this conversation" }

func (c *ClearCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.resetter.Reset(ctx, sessionID); err != nil {
		return "", err
	}
	return formatter.Success("All memory cleared"), nil
}

type HistoryCommand struct {
	history core.ConversationLog
}

func NewHistoryCommand(history core.ConversationLog) *HistoryCommand {
	return &HistoryCommand{history: history}
}

func (c *HistoryCommand) Name() string { return "history" }
func (c *HistoryCommand) Usage() string { return "/history [turns]" }
func (c *HistoryCommand) Description() string { return "Show recent conversation turns" }

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	n := defaultHistoryTurns
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return formatter.Usage(c.Usage()), nil
		}
		n = v
	}

	turns, err := c.history.Recent(ctx, sessionID, n)
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}
	if len(turns) == 0 {
		return formatter.Info("No conversation yet"), nil
	}

	items := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "You"
		if t.Role == core.RoleAssistant {
			speaker = core.AppName
		}
		items = append(items, fmt.Sprintf("**%s**: %s", speaker, preview(t.Content)))
	}
	return formatter.Combine(
		formatter.Info(fmt.Sprintf("Last %d turns", len(turns))),
		formatter.List(items),
	), nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > historyPreviewRunes {
		return string(r[:historyPreviewRunes]) + "..."
	}
	return s
}
