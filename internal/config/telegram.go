package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/teammem/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TEAMMEM_TELEGRAM_TOKEN,required,notEmpty"`
	// Chats whose messages are classified and stored automatically.
	MonitoredChats []int64 `env:"TEAMMEM_TELEGRAM_CHATS"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) IsMonitored(chatID int64) bool {
	for _, id := range c.MonitoredChats {
		if id == chatID {
			return true
		}
	}
	return false
}
