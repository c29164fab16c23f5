package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/logging"
	"fasika-cms/internal/models"
	"fasika-cms/internal/service"
	"fasika-cms/internal/validation"
)

const (
	MsgInvalidPayload   = "Invalid request payload."
	MsgSubmissionFailed = "We could not save your request. Please try again."
)

type SubmissionHandler struct {
	service *service.SubmissionService
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewSubmissionHandler(service *service.SubmissionService, logger *logging.ContextLogger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger,
		tracer:  otel.Tracer("submission-handler"),
	}
}

func (h *SubmissionHandler) bindFailed(c *gin.Context, span trace.Span, endpoint string, err error) {
	h.logger.InfoWithTracing(c.Request.Context(), "Invalid form payload", logrus.Fields{
		"endpoint": endpoint,
		"error":    err.Error(),
	})
	span.RecordError(err)

	message, details, ok := validation.Translate(err)
	if !ok {
		message = MsgInvalidPayload
	}
	respondError(c, http.StatusBadRequest, message, details)
}

func (h *SubmissionHandler) CreateTourRequest(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "submission.handler.tour")
	defer span.End()

	var req models.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, span, "POST /api/schedules", err)
		return
	}

	tour, err := h.service.RequestTour(ctx, req.Data)
	if err != nil {
		span.RecordError(err)
		respondError(c, http.StatusInternalServerError, MsgSubmissionFailed, nil)
		return
	}

	span.SetAttributes(
		attribute.String("tour_request.id", tour.ID.String()),
		attribute.Bool("success", true),
	)
	respondData(c, http.StatusCreated, tour, nil)
}

func (h *SubmissionHandler) CreateContactInquiry(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "submission.handler.contact")
	defer span.End()

	var req models.CreateContactInquiry
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, span, "POST /api/contact-customers", err)
		return
	}

	inquiry, err := h.service.SubmitContact(ctx, req.Data)
	if err != nil {
		span.RecordError(err)
		respondError(c, http.StatusInternalServerError, MsgSubmissionFailed, nil)
		return
	}

	span.SetAttributes(
		attribute.String("contact_inquiry.id", inquiry.ID.String()),
		attribute.Bool("success", true),
	)
	respondData(c, http.StatusCreated, inquiry, nil)
}
