package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/faq"
	"fasika-cms/internal/logging"
)

const MsgInvalidQuestion = "Please type a question."

type askRequest struct {
	Query string `json:"query" binding:"required,notblank,max=500"`
}

type FAQHandler struct {
	bot    *faq.Bot
	logger *logging.ContextLogger
	tracer trace.Tracer
}

func NewFAQHandler(bot *faq.Bot, logger *logging.ContextLogger) *FAQHandler {
	return &FAQHandler{
		bot:    bot,
		logger: logger,
		tracer: otel.Tracer("faq-handler"),
	}
}

func (h *FAQHandler) Greeting(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"name":     h.bot.Name(),
		"greeting": h.bot.Greeting(),
	}, nil)
}

func (h *FAQHandler) Ask(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "faq.handler.ask")
	defer span.End()

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondError(c, http.StatusBadRequest, MsgInvalidQuestion, nil)
		return
	}

	answer, err := h.bot.Ask(req.Query)
	if err != nil {
		span.RecordError(err)
		respondError(c, http.StatusBadRequest, MsgInvalidQuestion, nil)
		return
	}

	h.logger.InfoWithTracing(ctx, "Answered FAQ question", logrus.Fields{
		"matched": answer.Matched,
		"score":   answer.Score,
	})
	span.SetAttributes(
		attribute.Bool("faq.matched", answer.Matched),
		attribute.Float64("faq.score", answer.Score),
	)
	respondData(c, http.StatusOK, answer, nil)
}
