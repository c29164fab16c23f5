package mail

import (
	"context"
	"errors"
	"time"
)

var ErrNoRecipient = errors.New("message has no recipient")

// Message is a rendered email ready for delivery. HTMLBody is optional.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

type DeliveryResult struct {
	MessageID string
	Provider  string
	SentAt    time.Time
}

// Sender delivers one message. Implementations honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg *Message) (*DeliveryResult, error)
}

func (m *Message) validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	return nil
}
