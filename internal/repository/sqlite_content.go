package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/models"
)

const blogColumns = `id, slug, title, news, summary, body, read_time, cover, gallery, published_at, created_at, updated_at`

func (s *SQLiteStore) GetDocument(ctx context.Context, kind string, dest any) error {
	ctx, span := s.tracer.Start(ctx, "content.repository.get_document",
		trace.WithAttributes(
			attribute.String("content.kind", kind),
			attribute.String("operation", "database.read"),
		))
	defer span.End()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM content_documents WHERE kind = ?`, kind).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("found", false))
		return models.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to query %s document: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(body), dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to decode %s document: %w", kind, err)
	}
	span.SetAttributes(attribute.Bool("found", true))
	return nil
}

func (s *SQLiteStore) PutDocument(ctx context.Context, kind string, doc any) error {
	ctx, span := s.tracer.Start(ctx, "content.repository.put_document",
		trace.WithAttributes(
			attribute.String("content.kind", kind),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", kind, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO content_documents (kind, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		kind, string(body), formatTime(time.Now()))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store %s document: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) SaveBlogPost(ctx context.Context, post *models.BlogPost) error {
	ctx, span := s.tracer.Start(ctx, "blog.repository.save",
		trace.WithAttributes(
			attribute.String("blog.slug", post.Slug),
			attribute.String("operation", "database.write"),
		))
	defer span.End()

	now := time.Now().UTC()
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

	cover, err := json.Marshal(post.Cover)
	if err != nil {
		return fmt.Errorf("failed to encode cover: %w", err)
	}
	gallery := post.Gallery
	if gallery == nil {
		gallery = []models.Media{}
	}
	galleryJSON, err := json.Marshal(gallery)
	if err != nil {
		return fmt.Errorf("failed to encode gallery: %w", err)
	}

	// Slug is the natural key; the id and creation time of an existing post survive updates.
	var storedID, storedCreatedAt string
	err = s.db.QueryRowContext(ctx, `
INSERT INTO blog_posts (`+blogColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
    title = excluded.title,
    news = excluded.news,
    summary = excluded.summary,
    body = excluded.body,
    read_time = excluded.read_time,
    cover = excluded.cover,
    gallery = excluded.gallery,
    published_at = excluded.published_at,
    updated_at = excluded.updated_at
RETURNING id, created_at`,
		post.ID, post.Slug, post.Title, post.News, post.Summary, post.Body, post.ReadTime,
		string(cover), string(galleryJSON),
		formatTime(post.PublishedAt), formatTime(post.CreatedAt), formatTime(post.UpdatedAt)).
		Scan(&storedID, &storedCreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store blog post %q: %w", post.Slug, err)
	}

	post.ID = storedID
	post.CreatedAt, err = parseTime(storedCreatedAt)
	return err
}

func (s *SQLiteStore) GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	ctx, span := s.tracer.Start(ctx, "blog.repository.get",
		trace.WithAttributes(
			attribute.String("blog.slug", slug),
			attribute.String("operation", "database.read"),
		))
	defer span.End()

	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug)
	post, err := scanBlogPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("found", false))
		return nil, models.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("found", true))
	return post, nil
}

func (s *SQLiteStore) ListBlogPosts(ctx context.Context, q models.BlogQuery) ([]models.BlogPost, int, error) {
	ctx, span := s.tracer.Start(ctx, "blog.repository.list",
		trace.WithAttributes(
			attribute.Int("blog.page", q.Page),
			attribute.Int("blog.page_size", q.PageSize),
			attribute.String("operation", "database.read"),
		))
	defer span.End()

	var where []string
	var args []any
	if q.SlugEq != "" {
		where = append(where, "slug = ?")
		args = append(args, q.SlugEq)
	}
	if q.SlugNe != "" {
		where = append(where, "slug <> ?")
		args = append(args, q.SlugNe)
	}
	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`+filter, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	order := "DESC"
	if q.Ascending {
		order = "ASC"
	}
	offset, limit := pageBounds(q)
	query := `SELECT ` + blogColumns + ` FROM blog_posts` + filter +
		` ORDER BY published_at ` + order + `, slug ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate blog posts: %w", err)
	}

	span.SetAttributes(attribute.Int("blog.total", total))
	return posts, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlogPost(row rowScanner) (*models.BlogPost, error) {
	var post models.BlogPost
	var cover, gallery, publishedAt, createdAt, updatedAt string
	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.News, &post.Summary, &post.Body,
		&post.ReadTime, &cover, &gallery, &publishedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan blog post: %w", err)
	}

	if err := json.Unmarshal([]byte(cover), &post.Cover); err != nil {
		return nil, fmt.Errorf("failed to decode cover of %q: %w", post.Slug, err)
	}
	if err := json.Unmarshal([]byte(gallery), &post.Gallery); err != nil {
		return nil, fmt.Errorf("failed to decode gallery of %q: %w", post.Slug, err)
	}
	if post.PublishedAt, err = parseTime(publishedAt); err != nil {
		return nil, err
	}
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &post, nil
}
