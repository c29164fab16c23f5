package repository

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/models"
)

// InMemorySubscriberRepository keeps subscribers in a map keyed by email, so
// the uniqueness check and the insert happen under one lock.
type InMemorySubscriberRepository struct {
	mu          sync.RWMutex
	subscribers map[string]*models.Subscriber
	tracer      trace.Tracer
}

func NewInMemorySubscriberRepository() *InMemorySubscriberRepository {
	return &InMemorySubscriberRepository{
		subscribers: make(map[string]*models.Subscriber),
		tracer:      otel.Tracer("subscriber-repository"),
	}
}

func (r *InMemorySubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	_, span := r.tracer.Start(ctx, "subscriber.repository.create",
		trace.WithAttributes(
			attribute.String("subscriber.id", subscriber.ID.String()),
			attribute.String("subscriber.email", subscriber.Email),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscribers[subscriber.Email]; exists {
		span.RecordError(ErrDuplicateEmail)
		return ErrDuplicateEmail
	}

	stored := *subscriber
	r.subscribers[subscriber.Email] = &stored
	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (r *InMemorySubscriberRepository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	_, span := r.tracer.Start(ctx, "subscriber.repository.find_by_email",
		trace.WithAttributes(
			attribute.String("subscriber.email", email),
			attribute.String("operation", "database.read"),
		))
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	subscriber, exists := r.subscribers[email]
	span.SetAttributes(attribute.Bool("found", exists))
	if !exists {
		return nil, models.ErrNotFound
	}

	found := *subscriber
	return &found, nil
}

func (r *InMemorySubscriberRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.subscribers[email]; exists {
		return 1, nil
	}
	return 0, nil
}
