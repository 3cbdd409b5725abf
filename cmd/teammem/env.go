package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/pkg/env"
)

var showSecrets bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective configuration as .env lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return fmt.Errorf("failed to parse app config: %w", err)
		}
		cfgs := []any{
			appCfg,
			config.NewEmbeddingConfig(ctx),
			config.NewLLMConfig(ctx),
			config.NewHTTPConfig(ctx),
		}
		if appCfg.IsTelegramSelected() {
			cfgs = append(cfgs, config.NewTelegramConfig(ctx))
		}

		out, err := env.MarshalEnv(cfgs...)
		if err != nil {
			return err
		}
		if !showSecrets {
			out = env.Redact(out)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	envCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print API keys and tokens unmasked")
	rootCmd.AddCommand(envCmd)
}
