package client

import (
	"context"
	"errors"
	"net/http"

	"fasika-cms/internal/models"
)

type SubscribeStatus int

const (
	Subscribed SubscribeStatus = iota
	// AlreadySubscribed is informational: the address is on the list.
	AlreadySubscribed
	// Failed means the user may correct the address or retry.
	Failed
)

func (s SubscribeStatus) String() string {
	switch s {
	case Subscribed:
		return "subscribed"
	case AlreadySubscribed:
		return "already_subscribed"
	default:
		return "failed"
	}
}

const (
	MsgSubscribed       = "Thank you for subscribing!"
	MsgAlreadySubscribe = "This email is already subscribed."
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgSubscribeFailed  = "Subscription failed. Please try again."
)

// SubscribeOutcome is what the signup form shows after a submit.
type SubscribeOutcome struct {
	Status     SubscribeStatus
	Message    string
	Subscriber *models.Subscriber
}

// Subscribe validates the address locally, then posts it. Transport and
// server errors are folded into a Failed outcome; it never returns an error.
func (c *Client) Subscribe(ctx context.Context, email string) SubscribeOutcome {
	if !ValidEmail(email) {
		return SubscribeOutcome{Status: Failed, Message: MsgInvalidEmail}
	}

	body := models.SubscribeRequest{Data: &models.SubscribeData{Email: email}}
	subscriber, err := post[*models.Subscriber](ctx, c, "/api/subscriptions", body)
	if err == nil {
		return SubscribeOutcome{Status: Subscribed, Message: MsgSubscribed, Subscriber: subscriber}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return SubscribeOutcome{Status: Failed, Message: MsgSubscribeFailed}
	}
	switch {
	case apiErr.Status == http.StatusBadRequest && apiErr.Message == MsgAlreadySubscribe:
		return SubscribeOutcome{Status: AlreadySubscribed, Message: MsgAlreadySubscribe}
	case apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.Status):
		return SubscribeOutcome{Status: Failed, Message: apiErr.Message}
	default:
		return SubscribeOutcome{Status: Failed, Message: MsgSubscribeFailed}
	}
}
