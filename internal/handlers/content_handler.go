package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/logging"
	"fasika-cms/internal/models"
	"fasika-cms/internal/service"
)

const (
	MsgNotFound      = "Not Found"
	MsgContentFailed = "Failed to load content. Please try again."
)

type ContentHandler struct {
	service *service.ContentService
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewContentHandler(service *service.ContentService, logger *logging.ContextLogger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger,
		tracer:  otel.Tracer("content-handler"),
	}
}

// Document serves one page document. load is one of the ContentService getters.
func Document[T any](h *ContentHandler, kind string, load func(context.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := h.tracer.Start(c.Request.Context(), "content.handler.document",
			trace.WithAttributes(attribute.String("content.kind", kind)))
		defer span.End()

		doc, err := load(ctx)
		if err != nil {
			h.fail(c, span, err, logrus.Fields{"kind": kind})
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		respondData(c, http.StatusOK, doc, gin.H{})
	}
}

func (h *ContentHandler) fail(c *gin.Context, span trace.Span, err error, fields logrus.Fields) {
	if errors.Is(err, models.ErrNotFound) {
		respondError(c, http.StatusNotFound, MsgNotFound, nil)
		return
	}
	span.RecordError(err)
	h.logger.ErrorWithTracing(c.Request.Context(), "Failed to serve content", err, fields)
	respondError(c, http.StatusInternalServerError, MsgContentFailed, nil)
}

// ParseBlogQuery reads the Strapi-style query parameters the frontend sends.
// Unparseable numbers fall back to defaults.
func ParseBlogQuery(c *gin.Context) models.BlogQuery {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(c.Query(key))
		return n
	}
	q := models.BlogQuery{
		Page:     atoi("pagination[page]"),
		PageSize: atoi("pagination[pageSize]"),
		Limit:    atoi("pagination[limit]"),
		SlugEq:   c.Query("filters[slug][$eq]"),
		SlugNe:   c.Query("filters[slug][$ne]"),
	}
	if _, dir, ok := strings.Cut(c.Query("sort"), ":"); ok {
		q.Ascending = strings.EqualFold(dir, "asc")
	}
	return q
}

func (h *ContentHandler) ListBlogPosts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "blog.handler.list")
	defer span.End()

	page, err := h.service.ListBlogPosts(ctx, ParseBlogQuery(c))
	if err != nil {
		h.fail(c, span, err, logrus.Fields{"endpoint": "GET /api/blogs"})
		return
	}

	span.SetAttributes(
		attribute.Int("blog.count", len(page.Posts)),
		attribute.Bool("success", true),
	)
	respondData(c, http.StatusOK, page.Posts, gin.H{"pagination": page.Pagination})
}

func (h *ContentHandler) GetBlogPost(c *gin.Context) {
	slug := c.Param("slug")
	ctx, span := h.tracer.Start(c.Request.Context(), "blog.handler.get",
		trace.WithAttributes(attribute.String("blog.slug", slug)))
	defer span.End()

	post, related, err := h.service.BlogPost(ctx, slug)
	if err != nil {
		h.fail(c, span, err, logrus.Fields{"slug": slug})
		return
	}

	span.SetAttributes(attribute.Bool("success", true))
	respondData(c, http.StatusOK, post, gin.H{"related": related})
}
