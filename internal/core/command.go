package core

import "context"

// CmdRouter dispatches slash commands. The bool result reports whether the
// input was a command at all.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Usage() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}

// Dialogue is the turn handler shared by every transport.
type Dialogue interface {
	Handle(ctx context.Context, sessionID, text string) Reply
	Greeting(ctx context.Context) string
	Reset(ctx context.Context, sessionID string) error
}
