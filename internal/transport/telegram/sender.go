package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/teammem/pkg/conv"
	"github.com/sandevgo/teammem/pkg/log"
	"github.com/sandevgo/teammem/pkg/retry"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot     *tele.Bot
	retrier *retry.Retrier
}

func newSender(bot *tele.Bot) *sender {
	return &sender{
		bot: bot,
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    3,
			BackoffFactor: 2,
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
			Jitter:        200 * time.Millisecond,
		}),
	}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if
// needed. The first chunk replies to replyTo when it is set. A chunk Telegram
// cannot parse is resent as plain text.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, replyTo *tele.Message) error {
	logger := log.FromCtx(ctx)

	for i, chunk := range renderChunks(md) {
		opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
		if i == 0 && replyTo != nil {
			opts.ReplyTo = replyTo
		}

		err := s.send(ctx, to, chunk, opts)
		if isParseError(err) {
			logger.Warn().Err(err).Int("chunk", i).Msg("telegram rejected HTML, sending plain text")
			err = s.sendPlain(ctx, to, chunk, opts)
		}
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

func (s *sender) send(ctx context.Context, to tele.Recipient, text string, opts *tele.SendOptions) error {
	return s.retrier.Do(ctx, func(context.Context) error {
		_, err := s.bot.Send(to, text, opts)
		return classifySendError(err)
	})
}

func (s *sender) sendPlain(ctx context.Context, to tele.Recipient, htmlChunk string, opts *tele.SendOptions) error {
	plain, err := conv.MarkdownToPlain([]byte(htmlChunk))
	if err != nil {
		return err
	}
	plainOpts := *opts
	plainOpts.ParseMode = tele.ModeDefault
	for _, part := range conv.Split(plain, maxTelegramMsgLen) {
		if err := s.send(ctx, to, part, &plainOpts); err != nil {
			return err
		}
		plainOpts.ReplyTo = nil
	}
	return nil
}

// classifySendError retries only rate limiting; Telegram tells how long to wait.
func classifySendError(err error) error {
	if err == nil {
		return nil
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &retry.After{Err: err, Delay: time.Duration(flood.RetryAfter) * time.Second}
	}
	return retry.Permanent(err)
}

func isParseError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "can't parse entities")
}

func renderChunks(md string) []string {
	return conv.Split(conv.MarkdownToTelegramHTML([]byte(md)), maxTelegramMsgLen)
}
