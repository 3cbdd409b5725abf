package command

import (
	"context"
	"strconv"

	"github.com/sandevgo/teammem/internal/core"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

type RecentCommand struct {
	memory    core.MemoryService
	formatter *ResponseFormatter
}

func NewRecentCommand(memory core.MemoryService) *RecentCommand {
	return &RecentCommand{
		memory:    memory,
		formatter: NewResponseFormatter(),
	}
}

func (c *RecentCommand) Name() string {
	return "recent"
}

func (c *RecentCommand) Description() string {
	return "Show recent memories of a specific type"
}

// Execute accepts "/recent [type] [limit]"; a numeric first argument is the
// limit.
func (c *RecentCommand) Execute(ctx context.Context, _ core.CommandRequest, args []string) (string, error) {
	var (
		typ   *core.MemoryType
		limit = defaultRecentLimit
	)

	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			limit = n
			args = args[1:]
		} else {
			t, err := core.ParseMemoryType(args[0])
			if err != nil {
				return invalidTypeMessage(), nil
			}
			typ = &t
			args = args[1:]
		}
	}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			limit = n
		}
	}
	limit = clampLimit(limit)

	title := "Recent Memory Items"
	if typ != nil {
		title = "Recent " + typ.String() + " Items"
	}

	body, err := c.memory.FormatRecent(ctx, typ, limit)
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(c.formatter.Title(title), body), nil
}

func clampLimit(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxRecentLimit:
		return maxRecentLimit
	default:
		return n
	}
}
