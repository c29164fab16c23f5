package repository

import (
	"context"
	"errors"
	"math"

	"fasika-cms/internal/models"
)

// ErrDuplicateEmail is returned by SubscriberRepository.Create when the
// storage layer rejects the insert because the email already exists.
var ErrDuplicateEmail = errors.New("subscriber email must be unique")

// SubscriberRepository persists newsletter subscribers. Implementations must
// enforce email uniqueness themselves; callers treat a pre-insert lookup as
// advisory only.
type SubscriberRepository interface {
	// FindByEmail returns models.ErrNotFound when no subscriber has this exact email.
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, subscriber *models.Subscriber) error
	CountByEmail(ctx context.Context, email string) (int, error)
}

// ContentRepository stores page documents and blog posts.
type ContentRepository interface {
	// GetDocument decodes the document stored under kind into dest.
	GetDocument(ctx context.Context, kind string, dest any) error
	PutDocument(ctx context.Context, kind string, doc any) error
	// SaveBlogPost inserts or replaces the post with the same slug.
	SaveBlogPost(ctx context.Context, post *models.BlogPost) error
	GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error)
	// ListBlogPosts returns one page of posts plus the total number of matches.
	ListBlogPosts(ctx context.Context, query models.BlogQuery) ([]models.BlogPost, int, error)
}

// SubmissionRepository stores write-once form submissions.
type SubmissionRepository interface {
	CreateTourRequest(ctx context.Context, req *models.TourRequest) error
	CreateContactInquiry(ctx context.Context, inquiry *models.ContactInquiry) error
}

// pageBounds converts a query into offset/limit. A page past the largest
// representable offset yields math.MaxInt, which selects nothing.
func pageBounds(q models.BlogQuery) (offset, limit int) {
	if q.Limit > 0 {
		return 0, q.Limit
	}
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0, q.PageSize
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt, q.PageSize
	}
	return (q.Page - 1) * q.PageSize, q.PageSize
}
