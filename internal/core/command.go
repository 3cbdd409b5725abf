package core

import (
	"context"
	"time"
)

type CmdRouter interface {
	Execute(ctx context.Context, req CommandRequest, input string) (string, bool)
	ListCommands() []Command
}

// CommandRequest describes where a chat command came from.
type CommandRequest struct {
	ChatID    string
	ChatTitle string
	Author    string
	AuthorID  string
	MessageID string
	SentAt    time.Time
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, req CommandRequest, args []string) (string, error)
}
