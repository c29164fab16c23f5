package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/logging"
	"fasika-cms/internal/mail"
	"fasika-cms/internal/models"
)

// Notifier sends best-effort emails. Every method logs failures and never
// returns an error, so callers cannot accidentally depend on delivery.
type Notifier struct {
	sender     mail.Sender
	templates  *mail.Templates
	adminEmail string
	timeout    time.Duration
	logger     *logging.ContextLogger
	tracer     trace.Tracer
}

func NewNotifier(sender mail.Sender, templates *mail.Templates, adminEmail string, timeout time.Duration, logger *logging.ContextLogger) *Notifier {
	return &Notifier{
		sender:     sender,
		templates:  templates,
		adminEmail: adminEmail,
		timeout:    timeout,
		logger:     logger,
		tracer:     otel.Tracer("notifier"),
	}
}

// Welcome greets a new newsletter subscriber. It reports whether the message was accepted.
func (n *Notifier) Welcome(ctx context.Context, email string) bool {
	return n.deliver(ctx, "welcome", func() (*mail.Message, error) {
		return n.templates.WelcomeMessage(email)
	})
}

// TourRequested acknowledges the parent and alerts the office when an admin address is set.
func (n *Notifier) TourRequested(ctx context.Context, req *models.TourRequest) {
	n.deliver(ctx, "tour_acknowledgement", func() (*mail.Message, error) {
		return n.templates.TourAcknowledgement(req)
	})
	if n.adminEmail != "" {
		n.deliver(ctx, "tour_notification", func() (*mail.Message, error) {
			return n.templates.TourNotification(n.adminEmail, req)
		})
	}
}

func (n *Notifier) ContactReceived(ctx context.Context, inquiry *models.ContactInquiry) {
	if n.adminEmail == "" {
		return
	}
	n.deliver(ctx, "contact_notification", func() (*mail.Message, error) {
		return n.templates.ContactNotification(n.adminEmail, inquiry)
	})
}

func (n *Notifier) deliver(ctx context.Context, kind string, build func() (*mail.Message, error)) bool {
	ctx, span := n.tracer.Start(ctx, "mail.send",
		trace.WithAttributes(
			attribute.String("mail.kind", kind),
			attribute.String("operation", "mail.send"),
		))
	defer span.End()

	msg, err := build()
	if err != nil {
		span.RecordError(err)
		n.logger.WarnWithTracing(ctx, "Failed to render email", err, logrus.Fields{"kind": kind})
		return false
	}

	// Delivery outlives a cancelled request but not the configured timeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	result, err := n.sender.Send(sendCtx, msg)
	if err != nil {
		span.RecordError(err)
		n.logger.WarnWithTracing(ctx, "Failed to send email", err, logrus.Fields{
			"kind": kind,
			"to":   msg.To,
		})
		return false
	}

	span.SetAttributes(
		attribute.String("mail.provider", result.Provider),
		attribute.Bool("success", true),
	)
	n.logger.InfoWithTracing(ctx, "Email sent", logrus.Fields{
		"kind":       kind,
		"to":         msg.To,
		"message_id": result.MessageID,
		"provider":   result.Provider,
	})
	return true
}
