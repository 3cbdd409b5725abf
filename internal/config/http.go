package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/teammem/pkg/log"
)

type HTTPConfig struct {
	Addr            string        `env:"TEAMMEM_HTTP_ADDR" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"TEAMMEM_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
