package core

import "time"

// InboundMessage is a chat message observed in a monitored channel.
type InboundMessage struct {
	MessageID string
	ChatID    string
	ChatTitle string
	Author    string
	AuthorID  string
	Text      string
	SentAt    time.Time
}
