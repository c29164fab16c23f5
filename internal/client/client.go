// Package client is the typed HTTP client a page renderer uses to read site
// content and submit the public forms.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"fasika-cms/internal/models"
)

const defaultTimeout = 15 * time.Second

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// APIError is a non-2xx response. Message is the server's user-facing text.
type APIError struct {
	Status  int
	Name    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	rest *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(r *resty.Client) { r.SetTimeout(d) }
}

// WithTransport swaps the underlying round tripper, e.g. for an
// instrumented or test transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *resty.Client) { r.SetTransport(rt) }
}

func New(baseURL string, opts ...Option) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rest)
	}
	return &Client{rest: rest}
}

// envelope is a successful {"data": ..., "meta": ...} body.
type envelope[T, M any] struct {
	Data T `json:"data"`
	Meta M `json:"meta"`
}

type errorEnvelope struct {
	Error *struct {
		Status  int               `json:"status"`
		Name    string            `json:"name"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type blogListMeta struct {
	Pagination models.Pagination `json:"pagination"`
}

type blogPostMeta struct {
	Related []models.BlogPost `json:"related"`
}

// execute sends req and decodes either the data envelope or the error
// envelope. Non-2xx responses come back as *APIError.
func execute[T, M any](req *resty.Request, method, path string) (*envelope[T, M], error) {
	var env envelope[T, M]
	var failure errorEnvelope

	resp, err := req.SetResult(&env).SetError(&failure).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		if failure.Error != nil {
			apiErr.Name = failure.Error.Name
			apiErr.Message = failure.Error.Message
			apiErr.Details = failure.Error.Details
		}
		return nil, apiErr
	}
	return &env, nil
}

func get[T, M any](ctx context.Context, c *Client, path string) (*envelope[T, M], error) {
	return execute[T, M](c.rest.R().SetContext(ctx), http.MethodGet, path)
}

func post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	env, err := execute[T, any](c.rest.R().SetContext(ctx).SetBody(body), http.MethodPost, path)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func document[T any](ctx context.Context, c *Client, kind string) (T, error) {
	env, err := get[T, any](ctx, c, "/api/"+kind)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func (c *Client) HeroSections(ctx context.Context) ([]models.HeroSection, error) {
	return document[[]models.HeroSection](ctx, c, models.KindHeroSections)
}

func (c *Client) Navigation(ctx context.Context) (*models.Global, error) {
	return document[*models.Global](ctx, c, models.KindGlobal)
}

func (c *Client) About(ctx context.Context) (*models.AboutPage, error) {
	return document[*models.AboutPage](ctx, c, models.KindAboutPages)
}

func (c *Client) Admission(ctx context.Context) (*models.AdmissionPage, error) {
	return document[*models.AdmissionPage](ctx, c, models.KindAdmissionPages)
}

func (c *Client) Services(ctx context.Context) (*models.ServicePage, error) {
	return document[*models.ServicePage](ctx, c, models.KindServicePages)
}

func (c *Client) ContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	return document[*models.ContactInfo](ctx, c, models.KindContactUses)
}

// BlogPosts fetches one page of posts, newest first.
func (c *Client) BlogPosts(ctx context.Context, page, pageSize int) (*models.BlogPage, error) {
	req := c.rest.R().SetContext(ctx).SetQueryParams(map[string]string{
		"pagination[page]":     strconv.Itoa(page),
		"pagination[pageSize]": strconv.Itoa(pageSize),
		"sort":                 "createdAt:desc",
	})
	env, err := execute[[]models.BlogPost, blogListMeta](req, http.MethodGet, "/api/blogs")
	if err != nil {
		return nil, err
	}
	return &models.BlogPage{Posts: env.Data, Pagination: env.Meta.Pagination}, nil
}

// BlogPost fetches a post by slug with its related posts.
func (c *Client) BlogPost(ctx context.Context, slug string) (*models.BlogPost, []models.BlogPost, error) {
	req := c.rest.R().SetContext(ctx).SetPathParam("slug", slug)
	env, err := execute[*models.BlogPost, blogPostMeta](req, http.MethodGet, "/api/blogs/{slug}")
	if err != nil {
		return nil, nil, err
	}
	return env.Data, env.Meta.Related, nil
}

func (c *Client) RequestTour(ctx context.Context, data models.TourRequestData) (*models.TourRequest, error) {
	return post[*models.TourRequest](ctx, c, "/api/schedules", models.CreateTourRequest{Data: &data})
}

func (c *Client) SubmitContact(ctx context.Context, data models.ContactInquiryData) (*models.ContactInquiry, error) {
	return post[*models.ContactInquiry](ctx, c, "/api/contact-customers", models.CreateContactInquiry{Data: &data})
}

func (c *Client) AskFAQ(ctx context.Context, query string) (*FAQAnswer, error) {
	return post[*FAQAnswer](ctx, c, "/api/faq/ask", map[string]string{"query": query})
}

type FAQAnswer struct {
	Reply    string  `json:"reply"`
	Matched  bool    `json:"matched"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

type Greeting struct {
	Name     string `json:"name"`
	Greeting string `json:"greeting"`
}

func (c *Client) Greeting(ctx context.Context) (*Greeting, error) {
	env, err := get[*Greeting, any](ctx, c, "/api/faq/greeting")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ValidEmail applies the same loose format check as the signup form.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsAPIStatus reports whether err is an APIError with the given status.
func IsAPIStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
