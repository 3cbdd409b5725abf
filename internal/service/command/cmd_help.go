package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/teammem/internal/core"
)

var exampleQuestions = []string{
	"What decisions were made in the last 2 standups?",
	"When did we decide to deprecate feature X?",
	"What blockers are still unresolved?",
	"What's the status of the frontend work?",
}

// HelpCommand lists the commands registered on the router it is given.
type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{
		list:      list,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show help information about the memory bot"
}

func (c *HelpCommand) Execute(_ context.Context, _ core.CommandRequest, _ []string) (string, error) {
	var usage []string
	for _, cmd := range c.list() {
		usage = append(usage, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}

	return c.formatter.Combine(
		c.formatter.Title("Team Memory Bot Help"),
		"I'm your team's knowledge memory bot. I track important information from your conversations.\n",
		c.formatter.Section("How I Work",
			"I monitor conversations in designated channels and automatically extract important information. "+
				"You can also manually save memories or query existing ones.\n"),
		c.formatter.Section("Commands", c.formatter.List(usage)),
		c.formatter.Section("Memory Types", core.MemoryTypeNames()+"\n"),
		c.formatter.Section("Example Questions", c.formatter.List(exampleQuestions)),
	), nil
}
