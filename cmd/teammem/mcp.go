package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/teammem/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve team memory tools over MCP (stdio)",
	Long: `Runs an MCP server on stdin/stdout exposing ask_team_memory,
save_team_memory and recent_team_memories. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, os.Stderr, func(ctx context.Context, app *App) error {
			return mcp.NewServer(app.Memory).Serve(ctx, os.Stdin, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
