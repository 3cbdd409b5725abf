package command

import (
	"context"
	"strings"

	"github.com/sandevgo/teammem/internal/core"
)

type AskCommand struct {
	memory    core.MemoryService
	formatter *ResponseFormatter
}

func NewAskCommand(memory core.MemoryService) *AskCommand {
	return &AskCommand{
		memory:    memory,
		formatter: NewResponseFormatter(),
	}
}

func (c *AskCommand) Name() string {
	return "ask"
}

func (c *AskCommand) Description() string {
	return "Ask a question about team knowledge"
}

func (c *AskCommand) Execute(ctx context.Context, _ core.CommandRequest, args []string) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return c.formatter.Usage("/ask <question>"), nil
	}
	return c.memory.Ask(ctx, question), nil
}
