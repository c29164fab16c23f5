package repository

import (
	"context"
	"encoding/json"
	"fmt"

	dapr "github.com/dapr/go-sdk/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fasika-cms/internal/models"
)

const subscriberKeyPrefix = "subscriber:email:"

// DaprSubscriberRepository stores one state entry per email. Inserts use
// first-write concurrency without an ETag, which the state store only accepts
// while the key does not exist yet.
type DaprSubscriberRepository struct {
	client    dapr.Client
	tracer    trace.Tracer
	storeName string
}

func NewDaprSubscriberRepository(client dapr.Client, storeName string) *DaprSubscriberRepository {
	return &DaprSubscriberRepository{
		client:    client,
		tracer:    otel.Tracer("dapr.repository"),
		storeName: storeName,
	}
}

func subscriberKey(email string) string {
	return subscriberKeyPrefix + email
}

func (r *DaprSubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.create",
		trace.WithAttributes(
			attribute.String("subscriber.id", subscriber.ID.String()),
			attribute.String("subscriber.email", subscriber.Email),
			attribute.String("operation", "database.write"),
			attribute.String("dapr.store", r.storeName),
		))
	defer span.End()

	data, err := json.Marshal(subscriber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal subscriber: %w", err)
	}

	err = r.client.SaveState(ctx, r.storeName, subscriberKey(subscriber.Email), data, nil,
		dapr.WithConcurrency(dapr.StateConcurrencyFirstWrite),
		dapr.WithConsistency(dapr.StateConsistencyStrong),
	)
	if err != nil {
		span.RecordError(err)
		if isFirstWriteConflict(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save subscriber to dapr state store: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (r *DaprSubscriberRepository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.find_by_email",
		trace.WithAttributes(
			attribute.String("subscriber.email", email),
			attribute.String("operation", "database.read"),
			attribute.String("dapr.store", r.storeName),
		))
	defer span.End()

	item, err := r.client.GetState(ctx, r.storeName, subscriberKey(email), nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get subscriber from dapr state store: %w", err)
	}

	if item == nil || len(item.Value) == 0 {
		span.SetAttributes(attribute.Bool("found", false))
		return nil, models.ErrNotFound
	}

	var subscriber models.Subscriber
	if err := json.Unmarshal(item.Value, &subscriber); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal subscriber: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("found", true),
		attribute.String("subscriber.id", subscriber.ID.String()),
	)
	return &subscriber, nil
}

func (r *DaprSubscriberRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	_, err := r.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return 1, nil
	case err == models.ErrNotFound:
		return 0, nil
	default:
		return 0, err
	}
}

// isFirstWriteConflict reports whether the sidecar rejected a write because
// the key already exists (ETag mismatch).
func isFirstWriteConflict(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Aborted || st.Code() == codes.AlreadyExists
}
