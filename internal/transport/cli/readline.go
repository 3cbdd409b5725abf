// Package cli is an interactive terminal session over the chat commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

const localChat = "cli-local"

// Session turns terminal lines into chat commands. Lines without a leading
// slash are asked as questions.
type Session struct {
	router core.CmdRouter
	author string
	now    func() time.Time
}

func NewSession(router core.CmdRouter) *Session {
	author := "cli"
	if u, err := user.Current(); err == nil && u.Username != "" {
		author = u.Username
	}
	return &Session{router: router, author: author, now: time.Now}
}

// Handle returns the reply for one line and whether the session should end.
func (s *Session) Handle(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return "", false
	case "exit", "quit":
		return "", true
	}

	if !strings.HasPrefix(line, "/") {
		line = "/ask " + line
	}

	reply, _ := s.router.Execute(ctx, core.CommandRequest{
		ChatID:    localChat,
		ChatTitle: "terminal",
		Author:    s.author,
		SentAt:    s.now(),
	}, line)
	return reply, false
}

type ReadLine struct {
	session *Session
	rl      *readline.Instance
}

func NewReadLine(router core.CmdRouter, runtimePath string) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "memory> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init readline: %w", err)
	}

	return &ReadLine{session: NewSession(router), rl: rl}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("team memory session started, type /help or 'exit' to quit")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		reply, quit := r.session.Handle(ctx, line)
		if quit {
			return nil
		}
		if reply != "" {
			fmt.Fprintln(r.rl.Stdout(), reply)
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
