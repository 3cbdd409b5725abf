package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/service/installer"
	"github.com/sandevgo/teammem/pkg/log"
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	Aliases: []string{"install"},
	Short:   "Interactively create the runtime .env",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Setup complete! Run 'teammem start' to serve, or 'teammem ask' to query.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
