package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/service/classifier"
)

type SaveCommand struct {
	memory    core.MemoryService
	extractor *classifier.Extractor
	formatter *ResponseFormatter
}

func NewSaveCommand(memory core.MemoryService) *SaveCommand {
	return &SaveCommand{
		memory:    memory,
		extractor: classifier.NewExtractor(),
		formatter: NewResponseFormatter(),
	}
}

func (c *SaveCommand) Name() string {
	return "save"
}

func (c *SaveCommand) Description() string {
	return "Save important knowledge to team memory"
}

func (c *SaveCommand) Execute(ctx context.Context, req core.CommandRequest, args []string) (string, error) {
	if len(args) < 2 {
		return c.formatter.Combine(
			c.formatter.Usage("/save <type> <content>"),
			c.formatter.Label("Types", core.MemoryTypeNames()),
		), nil
	}

	typ, err := core.ParseMemoryType(args[0])
	if err != nil {
		return invalidTypeMessage(), nil
	}

	content := strings.Join(args[1:], " ")
	// Short notes are saved as typed.
	summary, err := c.extractor.Summarize(content)
	if err != nil {
		summary = strings.TrimSpace(content)
	}

	sentAt := req.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	author := req.Author
	if author == "" {
		author = "unknown"
	}

	rec, err := c.memory.Save(ctx, core.NewMemory{
		Type:            typ.String(),
		Summary:         summary,
		Timestamp:       sentAt.UTC().Format(time.RFC3339Nano),
		Context:         fmt.Sprintf("channel: %s (manual save)", req.ChatTitle),
		Participants:    []string{"@" + author},
		RawContent:      content,
		SourceMessageID: req.MessageID,
		ChannelID:       req.ChatID,
		AuthorID:        req.AuthorID,
	})
	if err != nil {
		return "", err
	}

	return c.formatter.Combine(
		c.formatter.Success("Memory Saved"),
		c.formatter.Label("Type", rec.Type.String())+c.formatter.Label("Summary", rec.Summary),
	), nil
}

func invalidTypeMessage() string {
	return "Invalid memory type. Please use one of: " + core.MemoryTypeNames()
}
