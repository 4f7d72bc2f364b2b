package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
)

type HelpCommand struct {
	router core.CmdRouter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Name() string { return "help" }
func (c *HelpCommand) Usage() string { return "/help" }
func (c *HelpCommand) Description() string { return "Show available commands" }

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	cmds := c.router.ListCommands()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("`%s` %s", cmd.Usage(), cmd.Description()))
	}

	return formatter.Combine(
		formatter.Info("Commands"),
		formatter.List(items),
		formatter.Tip("ask anything else in plain words, e.g. \"what is quantum computing?\""),
	), nil
}
