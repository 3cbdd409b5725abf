// Package command implements the chat commands understood by the bot.
package command

import (
	"github.com/sandevgo/teammem/internal/core"
)

// NewRouter registers every chat command, including /help, which lists the
// router's own commands.
func NewRouter(memory core.MemoryService) *Router {
	r := New([]core.Command{
		NewAskCommand(memory),
		NewSaveCommand(memory),
		NewRecentCommand(memory),
	})
	help := NewHelpCommand(r.ListCommands)
	r.commands[help.Name()] = help
	return r
}
