package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/models"
)

func (s *SQLiteStore) Create(ctx context.Context, subscriber *models.Subscriber) error {
	ctx, span := s.tracer.Start(ctx, "subscriber.repository.create",
		trace.WithAttributes(
			attribute.String("subscriber.id", subscriber.ID.String()),
			attribute.String("subscriber.email", subscriber.Email),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (id, email, created_at) VALUES (?, ?, ?)`,
		subscriber.ID.String(), subscriber.Email, formatTime(subscriber.CreatedAt))
	if err != nil {
		span.RecordError(err)
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	ctx, span := s.tracer.Start(ctx, "subscriber.repository.find_by_email",
		trace.WithAttributes(
			attribute.String("subscriber.email", email),
			attribute.String("operation", "database.read"),
		))
	defer span.End()

	var id, storedEmail, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM subscribers WHERE email = ?`, email).
		Scan(&id, &storedEmail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("found", false))
		return nil, models.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query subscriber: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stored subscriber id %q: %w", id, err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("found", true))
	return &models.Subscriber{ID: parsedID, Email: storedEmail, CreatedAt: created}, nil
}

func (s *SQLiteStore) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE email = ?`, email).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}
