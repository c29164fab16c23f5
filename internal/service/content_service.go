package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/cache"
	"fasika-cms/internal/content"
	"fasika-cms/internal/logging"
	"fasika-cms/internal/models"
	"fasika-cms/internal/repository"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
	relatedPosts    = 3

	// MaxPage keeps (Page-1)*PageSize within int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type ContentService struct {
	repo   repository.ContentRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *logging.ContextLogger
	tracer trace.Tracer
}

func NewContentService(repo repository.ContentRepository, cache cache.Cache, ttl time.Duration, logger *logging.ContextLogger) *ContentService {
	return &ContentService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("content-service"),
	}
}

// cached runs load on a cache miss and stores its result. Cached values are
// shared between requests and must not be mutated.
func cached[T any](ctx context.Context, s *ContentService, key string, load func(context.Context) (T, error)) (T, error) {
	if v, err := s.cache.Get(ctx, key); err == nil {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.WarnWithTracing(ctx, "Failed to cache content", err, logrus.Fields{"cache_key": key})
	}
	return value, nil
}

func document[T any](ctx context.Context, s *ContentService, kind string) (*T, error) {
	ctx, span := s.tracer.Start(ctx, "content.service.document",
		trace.WithAttributes(attribute.String("content.kind", kind)))
	defer span.End()

	doc, err := cached(ctx, s, cache.GenerateCacheKey("content", kind), func(ctx context.Context) (*T, error) {
		var doc T
		if err := s.repo.GetDocument(ctx, kind, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	})
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		span.RecordError(err)
		s.logger.ErrorWithTracing(ctx, "Failed to load content document", err, logrus.Fields{"kind": kind})
	}
	return doc, err
}

func (s *ContentService) HeroSections(ctx context.Context) ([]models.HeroSection, error) {
	doc, err := document[[]models.HeroSection](ctx, s, models.KindHeroSections)
	if err != nil {
		return nil, err
	}
	return *doc, nil
}

func (s *ContentService) Navigation(ctx context.Context) (*models.Global, error) {
	return document[models.Global](ctx, s, models.KindGlobal)
}

func (s *ContentService) About(ctx context.Context) (*models.AboutPage, error) {
	return document[models.AboutPage](ctx, s, models.KindAboutPages)
}

func (s *ContentService) Admission(ctx context.Context) (*models.AdmissionPage, error) {
	return document[models.AdmissionPage](ctx, s, models.KindAdmissionPages)
}

func (s *ContentService) Services(ctx context.Context) (*models.ServicePage, error) {
	return document[models.ServicePage](ctx, s, models.KindServicePages)
}

func (s *ContentService) ContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	return document[models.ContactInfo](ctx, s, models.KindContactUses)
}

// NormalizeBlogQuery applies paging defaults and bounds.
func NormalizeBlogQuery(q models.BlogQuery) models.BlogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

// blogListKey identifies an unfiltered listing. Slug-filtered queries are
// never cached since their keys are client-controlled.
func blogListKey(q models.BlogQuery) string {
	return cache.GenerateCacheKey("blog", "list",
		strconv.Itoa(q.Page), strconv.Itoa(q.PageSize), strconv.Itoa(q.Limit),
		strconv.FormatBool(q.Ascending))
}

func (s *ContentService) ListBlogPosts(ctx context.Context, q models.BlogQuery) (*models.BlogPage, error) {
	q = NormalizeBlogQuery(q)

	ctx, span := s.tracer.Start(ctx, "blog.service.list",
		trace.WithAttributes(
			attribute.Int("blog.page", q.Page),
			attribute.Int("blog.page_size", q.PageSize),
			attribute.Int("blog.limit", q.Limit),
		))
	defer span.End()

	load := func(ctx context.Context) (*models.BlogPage, error) {
		posts, total, err := s.repo.ListBlogPosts(ctx, q)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			posts[i].BodyHTML = content.RenderMarkdown(posts[i].Body)
		}

		size := q.PageSize
		page := q.Page
		if q.Limit > 0 {
			size, page = q.Limit, 1
		}
		return &models.BlogPage{
			Posts: posts,
			Pagination: models.Pagination{
				Page:      page,
				PageSize:  size,
				PageCount: (total + size - 1) / size,
				Total:     total,
			},
		}, nil
	}

	var page *models.BlogPage
	var err error
	if q.SlugEq != "" || q.SlugNe != "" {
		page, err = load(ctx)
	} else {
		page, err = cached(ctx, s, blogListKey(q), load)
	}
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorWithTracing(ctx, "Failed to list blog posts", err, nil)
		return nil, err
	}

	span.SetAttributes(attribute.Int("blog.total", page.Pagination.Total))
	return page, nil
}

// BlogPost returns the post with slug plus the most recent other posts.
func (s *ContentService) BlogPost(ctx context.Context, slug string) (*models.BlogPost, []models.BlogPost, error) {
	ctx, span := s.tracer.Start(ctx, "blog.service.get",
		trace.WithAttributes(attribute.String("blog.slug", slug)))
	defer span.End()

	post, err := cached(ctx, s, cache.GenerateCacheKey("blog", "post", slug), func(ctx context.Context) (*models.BlogPost, error) {
		post, err := s.repo.GetBlogPost(ctx, slug)
		if err != nil {
			return nil, err
		}
		post.BodyHTML = content.RenderMarkdown(post.Body)
		return post, nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			span.RecordError(err)
			s.logger.ErrorWithTracing(ctx, "Failed to load blog post", err, logrus.Fields{"slug": slug})
		}
		return nil, nil, err
	}

	latest, err := s.ListBlogPosts(ctx, models.BlogQuery{Limit: relatedPosts + 1})
	if err != nil {
		return nil, nil, err
	}
	related := make([]models.BlogPost, 0, relatedPosts)
	for _, p := range latest.Posts {
		if p.Slug != slug && len(related) < relatedPosts {
			related = append(related, p)
		}
	}
	return post, related, nil
}

// HasContent reports whether any page document has been stored.
func (s *ContentService) HasContent(ctx context.Context) (bool, error) {
	var hero []models.HeroSection
	err := s.repo.GetDocument(ctx, models.KindHeroSections, &hero)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Seed writes every document and post in doc, then drops cached reads.
func (s *ContentService) Seed(ctx context.Context, doc *content.SeedDocument) error {
	ctx, span := s.tracer.Start(ctx, "content.service.seed")
	defer span.End()

	documents := map[string]any{}
	if doc.HeroSections != nil {
		documents[models.KindHeroSections] = doc.HeroSections
	}
	if doc.Global != nil {
		documents[models.KindGlobal] = doc.Global
	}
	if doc.About != nil {
		documents[models.KindAboutPages] = doc.About
	}
	if doc.Admission != nil {
		documents[models.KindAdmissionPages] = doc.Admission
	}
	if doc.Services != nil {
		documents[models.KindServicePages] = doc.Services
	}
	if doc.Contact != nil {
		documents[models.KindContactUses] = doc.Contact
	}

	for kind, d := range documents {
		if err := s.repo.PutDocument(ctx, kind, d); err != nil {
			span.RecordError(err)
			return fmt.Errorf("seeding %s: %w", kind, err)
		}
	}
	for i := range doc.Blogs {
		post := doc.Blogs[i]
		if post.Slug == "" {
			post.Slug = content.Slugify(post.Title)
		}
		if err := s.repo.SaveBlogPost(ctx, &post); err != nil {
			span.RecordError(err)
			return fmt.Errorf("seeding blog post %q: %w", post.Slug, err)
		}
	}

	if err := s.cache.Clear(ctx); err != nil {
		s.logger.WarnWithTracing(ctx, "Failed to clear content cache after seeding", err, nil)
	}

	s.logger.InfoWithTracing(ctx, "Content seeded", logrus.Fields{
		"documents": len(documents),
		"posts":     len(doc.Blogs),
	})
	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
