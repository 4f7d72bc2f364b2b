package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

type Router struct {
	commands map[string]core.Command
	order    []core.Command
}

// New builds a Router over commands. /help is always registered and lists
// the others in the given order.
func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range append([]core.Command{NewHelpCommand(c)}, commands...) {
		if _, dup := c.commands[cmd.Name()]; dup {
			continue
		}
		c.commands[cmd.Name()] = cmd
		c.order = append(c.order, cmd)
	}
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Type /help to see what I can do.", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return formatter.Error(err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	return append([]core.Command(nil), c.order...)
}
