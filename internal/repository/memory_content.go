package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fasika-cms/internal/models"
)

// InMemoryContentStore implements ContentRepository and SubmissionRepository
// for the memory backend and tests. Documents are kept as encoded JSON so
// callers never share mutable state with the store.
type InMemoryContentStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
	posts     map[string]models.BlogPost
	tours     []models.TourRequest
	contacts  []models.ContactInquiry
}

func NewInMemoryContentStore() *InMemoryContentStore {
	return &InMemoryContentStore{
		documents: make(map[string][]byte),
		posts:     make(map[string]models.BlogPost),
	}
}

func (s *InMemoryContentStore) GetDocument(ctx context.Context, kind string, dest any) error {
	s.mu.RLock()
	body, ok := s.documents[kind]
	s.mu.RUnlock()
	if !ok {
		return models.ErrNotFound
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", kind, err)
	}
	return nil
}

func (s *InMemoryContentStore) PutDocument(ctx context.Context, kind string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", kind, err)
	}
	s.mu.Lock()
	s.documents[kind] = body
	s.mu.Unlock()
	return nil
}

func (s *InMemoryContentStore) SaveBlogPost(ctx context.Context, post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.posts[post.Slug]; ok {
		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = post.CreatedAt
	}
	post.UpdatedAt = now

	stored := *post
	stored.Gallery = append([]models.Media(nil), post.Gallery...)
	s.posts[post.Slug] = stored
	return nil
}

func (s *InMemoryContentStore) GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[slug]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &post, nil
}

func (s *InMemoryContentStore) ListBlogPosts(ctx context.Context, q models.BlogQuery) ([]models.BlogPost, int, error) {
	s.mu.RLock()
	matches := make([]models.BlogPost, 0, len(s.posts))
	for _, post := range s.posts {
		if q.SlugEq != "" && post.Slug != q.SlugEq {
			continue
		}
		if q.SlugNe != "" && post.Slug == q.SlugNe {
			continue
		}
		matches = append(matches, post)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			if q.Ascending {
				return a.PublishedAt.Before(b.PublishedAt)
			}
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.Slug < b.Slug
	})

	total := len(matches)
	offset, limit := pageBounds(q)
	if offset >= total {
		return []models.BlogPost{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (s *InMemoryContentStore) CreateTourRequest(ctx context.Context, req *models.TourRequest) error {
	s.mu.Lock()
	s.tours = append(s.tours, *req)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryContentStore) CreateContactInquiry(ctx context.Context, inquiry *models.ContactInquiry) error {
	s.mu.Lock()
	s.contacts = append(s.contacts, *inquiry)
	s.mu.Unlock()
	return nil
}

// CountSubmissions returns the number of stored tour requests and contact inquiries.
func (s *InMemoryContentStore) CountSubmissions(ctx context.Context) (tours, contacts int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tours), len(s.contacts), nil
}
