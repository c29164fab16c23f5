package handlers

import (
	"errors"
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
	MsgInvalidSubscription = "Invalid request payload. Expected { data: { email } }"
	MsgAlreadySubscribed   = "This email is already subscribed."
	MsgSubscriptionFailed  = "Failed to create subscription. Please try again."
)

type SubscriberHandler struct {
	service *service.SubscriberService
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewSubscriberHandler(service *service.SubscriberService, logger *logging.ContextLogger) *SubscriberHandler {
	return &SubscriberHandler{
		service: service,
		logger:  logger,
		tracer:  otel.Tracer("subscriber-handler"),
	}
}

func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "subscriber.handler.subscribe")
	defer span.End()

	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.InfoWithTracing(ctx, "Invalid subscription payload", logrus.Fields{
			"endpoint": "POST /api/subscriptions",
			"error":    err.Error(),
		})
		span.RecordError(err)

		message := MsgInvalidSubscription
		translated, details, ok := validation.Translate(err)
		if ok && validation.OnlyMalformedEmail(err) {
			message = translated
		}
		respondError(c, http.StatusBadRequest, message, details)
		return
	}

	subscriber, err := h.service.Subscribe(ctx, req.Data.Email)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, models.ErrInvalidPayload):
			respondError(c, http.StatusBadRequest, MsgInvalidSubscription, nil)
		case errors.Is(err, models.ErrDuplicateSubscriber):
			respondError(c, http.StatusBadRequest, MsgAlreadySubscribed, nil)
		default:
			h.logger.ErrorWithTracing(ctx, "Failed to create subscription", err, logrus.Fields{
				"endpoint": "POST /api/subscriptions",
			})
			respondError(c, http.StatusInternalServerError, MsgSubscriptionFailed, nil)
		}
		return
	}

	span.SetAttributes(
		attribute.String("subscriber.id", subscriber.ID.String()),
		attribute.Bool("success", true),
	)
	respondData(c, http.StatusCreated, subscriber, nil)
}
