package mail

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of delivering them. Used in
// development and when no mail backend is configured.
type LogSender struct {
	logger logrus.FieldLogger
}

func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.logger.WithFields(logrus.Fields{
		"message_id": id,
		"to":         msg.To,
		"reply_to":   msg.ReplyTo,
		"subject":    msg.Subject,
		"body":       msg.TextBody,
	}).Info("Email logged instead of sent")

	return &DeliveryResult{MessageID: id, Provider: "log", SentAt: time.Now().UTC()}, nil
}
