package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/logging"
	"fasika-cms/internal/models"
	"fasika-cms/internal/repository"
)

type SubscriberService struct {
	repo     repository.SubscriberRepository
	notifier *Notifier
	logger   *logging.ContextLogger
	tracer   trace.Tracer
}

func NewSubscriberService(repo repository.SubscriberRepository, notifier *Notifier, logger *logging.ContextLogger) *SubscriberService {
	return &SubscriberService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer("subscriber-service"),
	}
}

// Subscribe registers email for the newsletter. Duplicate checks happen
// before the welcome email; the repository's uniqueness constraint is the
// final arbiter when two requests race.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = models.NormalizeEmail(email)

	ctx, span := s.tracer.Start(ctx, "subscriber.service.subscribe",
		trace.WithAttributes(
			attribute.String("subscriber.email", email),
		))
	defer span.End()

	if email == "" {
		return nil, models.ErrInvalidPayload
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.InfoWithTracing(ctx, "Duplicate subscription rejected", logrus.Fields{"email": email})
		span.SetAttributes(attribute.Bool("duplicate", true))
		return nil, models.ErrDuplicateSubscriber
	case !errors.Is(err, models.ErrNotFound):
		s.logger.ErrorWithTracing(ctx, "Failed to check for existing subscriber", err, logrus.Fields{"email": email})
		span.RecordError(err)
		return nil, &models.PersistenceError{Op: "find subscriber", Err: err}
	}

	welcomed := s.notifier.Welcome(ctx, email)

	subscriber := models.NewSubscriber(email)
	if err := s.repo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.InfoWithTracing(ctx, "Concurrent duplicate subscription rejected", logrus.Fields{"email": email})
			span.SetAttributes(attribute.Bool("duplicate", true))
			return nil, models.ErrDuplicateSubscriber
		}
		s.logger.ErrorWithTracing(ctx, "Failed to create subscriber", err, logrus.Fields{
			"subscriber_id": subscriber.ID.String(),
			"email":         email,
		})
		span.RecordError(err)
		return nil, &models.PersistenceError{Op: "create subscriber", Err: err}
	}

	s.logger.InfoWithTracing(ctx, "Successfully created subscriber", logrus.Fields{
		"subscriber_id": subscriber.ID.String(),
		"email":         subscriber.Email,
		"welcomed":      welcomed,
	})

	span.SetAttributes(
		attribute.String("subscriber.id", subscriber.ID.String()),
		attribute.Bool("welcome.sent", welcomed),
		attribute.Bool("success", true),
	)
	return subscriber, nil
}

// SubscriberCount returns how many subscribers have exactly this email (0 or 1).
func (s *SubscriberService) SubscriberCount(ctx context.Context, email string) (int, error) {
	return s.repo.CountByEmail(ctx, models.NormalizeEmail(email))
}
