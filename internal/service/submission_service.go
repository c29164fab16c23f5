package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/logging"
	"fasika-cms/internal/models"
	"fasika-cms/internal/repository"
)

// SubmissionService stores form submissions and then notifies people about them.
type SubmissionService struct {
	repo     repository.SubmissionRepository
	notifier *Notifier
	logger   *logging.ContextLogger
	tracer   trace.Tracer
}

func NewSubmissionService(repo repository.SubmissionRepository, notifier *Notifier, logger *logging.ContextLogger) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer("submission-service"),
	}
}

func (s *SubmissionService) RequestTour(ctx context.Context, data *models.TourRequestData) (*models.TourRequest, error) {
	req := models.NewTourRequest(data)

	ctx, span := s.tracer.Start(ctx, "submission.service.request_tour",
		trace.WithAttributes(
			attribute.String("tour_request.id", req.ID.String()),
			attribute.String("tour_request.center", req.Center),
		))
	defer span.End()

	if err := s.repo.CreateTourRequest(ctx, req); err != nil {
		span.RecordError(err)
		s.logger.ErrorWithTracing(ctx, "Failed to store tour request", err, logrus.Fields{"tour_request_id": req.ID.String()})
		return nil, &models.PersistenceError{Op: "create tour request", Err: err}
	}

	s.notifier.TourRequested(ctx, req)

	s.logger.InfoWithTracing(ctx, "Tour request received", logrus.Fields{
		"tour_request_id": req.ID.String(),
		"center":          req.Center,
		"programme":       req.Programme,
	})
	span.SetAttributes(attribute.Bool("success", true))
	return req, nil
}

func (s *SubmissionService) SubmitContact(ctx context.Context, data *models.ContactInquiryData) (*models.ContactInquiry, error) {
	inquiry := models.NewContactInquiry(data)

	ctx, span := s.tracer.Start(ctx, "submission.service.submit_contact",
		trace.WithAttributes(
			attribute.String("contact_inquiry.id", inquiry.ID.String()),
		))
	defer span.End()

	if err := s.repo.CreateContactInquiry(ctx, inquiry); err != nil {
		span.RecordError(err)
		s.logger.ErrorWithTracing(ctx, "Failed to store contact inquiry", err, logrus.Fields{"contact_inquiry_id": inquiry.ID.String()})
		return nil, &models.PersistenceError{Op: "create contact inquiry", Err: err}
	}

	s.notifier.ContactReceived(ctx, inquiry)

	s.logger.InfoWithTracing(ctx, "Contact inquiry received", logrus.Fields{
		"contact_inquiry_id": inquiry.ID.String(),
		"find_us":            inquiry.FindUs,
	})
	span.SetAttributes(attribute.Bool("success", true))
	return inquiry, nil
}
