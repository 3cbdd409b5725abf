package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/service/ui"
	"github.com/sandevgo/teammem/internal/transport/cli"
)

// withApp builds the pipeline, runs fn and releases storage. Logs go to
// logOut so command output on stdout stays clean.
func withApp(cmd *cobra.Command, logOut io.Writer, fn func(ctx context.Context, app *App) error) error {
	ctx, flushLog := setupLogger(cmd.Context(), logOut)
	defer flushLog()

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return fn(ctx, app)
}

// runChatCommand executes a chat command exactly as the bot would.
func runChatCommand(cmd *cobra.Command, input string) error {
	return withApp(cmd, os.Stderr, func(ctx context.Context, app *App) error {
		reply, _ := app.Router.Execute(ctx, core.CommandRequest{
			ChatID:    "cli",
			ChatTitle: "terminal",
			Author:    "cli",
			SentAt:    time.Now(),
		}, input)
		fmt.Fprintln(cmd.OutOrStdout(), ui.AnswerStyle.Render(reply))
		return nil
	})
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the team memory a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChatCommand(cmd, "/ask "+strings.Join(args, " "))
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <type> <content>",
	Short: "Save a memory (decision, blocker, status_update, milestone, question, answer)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChatCommand(cmd, "/save "+strings.Join(args, " "))
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent [type] [limit]",
	Short: "List recent memories",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChatCommand(cmd, strings.TrimSpace("/recent "+strings.Join(args, " ")))
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session; plain lines are asked as questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, os.Stderr, func(ctx context.Context, app *App) error {
			rl, err := cli.NewReadLine(app.Router, app.Config.GetRuntimePath())
			if err != nil {
				return err
			}
			defer rl.Shutdown(ctx)
			return rl.Start(ctx)
		})
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed every stored memory into the vector index",
	Long: `Rebuilds vectors from the record store. Run it after changing the
embedding provider, model or dimension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, os.Stderr, func(ctx context.Context, app *App) error {
			n, err := app.Memory.Reindex(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d memories.\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd, saveCmd, recentCmd, chatCmd, reindexCmd)
}
