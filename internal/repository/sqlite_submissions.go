package repository

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/models"
)

func (s *SQLiteStore) CreateTourRequest(ctx context.Context, req *models.TourRequest) error {
	ctx, span := s.tracer.Start(ctx, "submission.repository.create_tour_request",
		trace.WithAttributes(
			attribute.String("tour_request.id", req.ID.String()),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO tour_requests (id, name, email, phone, time, programme, age, source, center, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID.String(), req.Name, req.Email, req.Phone, req.Time, req.Programme,
		req.Age, req.Source, req.Center, req.Message, formatTime(req.CreatedAt))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert tour request: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateContactInquiry(ctx context.Context, inquiry *models.ContactInquiry) error {
	ctx, span := s.tracer.Start(ctx, "submission.repository.create_contact_inquiry",
		trace.WithAttributes(
			attribute.String("contact_inquiry.id", inquiry.ID.String()),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO contact_inquiries (id, name, email, phone, find_us, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		inquiry.ID.String(), inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.FindUs,
		formatTime(inquiry.CreatedAt))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert contact inquiry: %w", err)
	}
	return nil
}

// CountSubmissions returns the number of stored tour requests and contact inquiries.
func (s *SQLiteStore) CountSubmissions(ctx context.Context) (tours, contacts int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM tour_requests), (SELECT COUNT(*) FROM contact_inquiries)`).
		Scan(&tours, &contacts)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return tours, contacts, nil
}
