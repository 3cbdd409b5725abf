package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/teammem/pkg/log"
	"github.com/sandevgo/teammem/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API and the Telegram bot",
	Long:  `Starts every enabled transport (HTTP, Telegram) and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stdout)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting teammem")

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		services, err := NewServices(ctx, app)
		if err != nil {
			app.Close(ctx)
			return err
		}

		if err := srv.Run(ctx, services); err != nil {
			return err
		}
		logger.Info().Msg("teammem has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
