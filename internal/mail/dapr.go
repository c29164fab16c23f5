package mail

import (
	"context"
	"fmt"
	"time"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/google/uuid"
)

// DaprBindingSender hands messages to a Dapr SMTP output binding. The
// binding accepts a single body, so the HTML part is preferred when present.
type DaprBindingSender struct {
	client  dapr.Client
	binding string
	from    string
	replyTo string
}

func NewDaprBindingSender(client dapr.Client, binding, from, replyTo string) *DaprBindingSender {
	return &DaprBindingSender{client: client, binding: binding, from: from, replyTo: replyTo}
}

func (s *DaprBindingSender) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}

	body := msg.HTMLBody
	if body == "" {
		body = msg.TextBody
	}

	metadata := map[string]string{
		"emailTo": msg.To,
		"subject": msg.Subject,
	}
	if s.from != "" {
		metadata["emailFrom"] = s.from
	}
	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = s.replyTo
	}
	if replyTo != "" {
		metadata["emailReplyTo"] = replyTo
	}

	err := s.client.InvokeOutputBinding(ctx, &dapr.InvokeBindingRequest{
		Name:      s.binding,
		Operation: "create",
		Data:      []byte(body),
		Metadata:  metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s binding: %w", s.binding, err)
	}

	return &DeliveryResult{
		MessageID: uuid.NewString(),
		Provider:  "dapr:" + s.binding,
		SentAt:    time.Now().UTC(),
	}, nil
}
