// Package telegram connects the memory service to Telegram: commands in any
// chat, automatic ingestion in monitored chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot    *tele.Bot
	cfg    *config.TelegramConfig
	router core.CmdRouter
	memory core.MemoryService
	sender *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	router core.CmdRouter,
	memory core.MemoryService,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		cfg:    cfg,
		router: router,
		memory: memory,
		sender: newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().
		Str("bot", b.bot.Me.Username).
		Ints64("monitored", b.cfg.MonitoredChats).
		Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	msg := c.Message()
	if msg == nil {
		return nil
	}

	reply, err := b.process(ctx, msg)
	if err != nil || reply == "" {
		return err
	}

	_ = c.Notify(tele.Typing)
	return b.sender.sendMarkdown(ctx, c.Chat(), reply, msg)
}

// process returns the reply for a message, or "" when the bot stays silent.
func (b *Bot) process(ctx context.Context, msg *tele.Message) (string, error) {
	logger := log.FromCtx(ctx)

	req := commandRequest(msg)
	if reply, ok := b.router.Execute(ctx, req, msg.Text); ok {
		return reply, nil
	}

	if msg.Chat == nil || !b.cfg.IsMonitored(msg.Chat.ID) {
		return "", nil
	}

	rec, err := b.memory.Ingest(ctx, inboundMessage(msg))
	switch {
	case errors.Is(err, core.ErrNothingToExtract):
		logger.Debug().Str("chat", req.ChatID).Msg("message skipped")
	case err != nil:
		logger.Error().Err(err).Str("chat", req.ChatID).Msg("failed to ingest message")
	default:
		logger.Debug().Str("id", rec.ID).Str("type", rec.Type.String()).Msg("message ingested")
	}
	return "", nil
}

func commandRequest(msg *tele.Message) core.CommandRequest {
	req := core.CommandRequest{
		MessageID: strconv.Itoa(msg.ID),
		SentAt:    msg.Time(),
	}
	if msg.Chat != nil {
		req.ChatID = strconv.FormatInt(msg.Chat.ID, 10)
		req.ChatTitle = chatTitle(msg.Chat)
	}
	if msg.Sender != nil {
		req.Author = authorName(msg.Sender)
		req.AuthorID = strconv.FormatInt(msg.Sender.ID, 10)
	}
	return req
}

func inboundMessage(msg *tele.Message) core.InboundMessage {
	req := commandRequest(msg)
	return core.InboundMessage{
		MessageID: req.MessageID,
		ChatID:    req.ChatID,
		ChatTitle: req.ChatTitle,
		Author:    req.Author,
		AuthorID:  req.AuthorID,
		Text:      msg.Text,
		SentAt:    req.SentAt,
	}
}

func chatTitle(chat *tele.Chat) string {
	switch {
	case chat.Title != "":
		return chat.Title
	case chat.Username != "":
		return chat.Username
	default:
		return "private"
	}
}

func authorName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
