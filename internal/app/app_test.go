package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"

	"fasika-cms/internal/faq"
	"fasika-cms/internal/logging"
	"fasika-cms/internal/mail"
	"fasika-cms/internal/models"
	"fasika-cms/internal/repository"
	"fasika-cms/internal/service"
	"fasika-cms/internal/telemetry"
)

type countingSender struct {
	mu   sync.Mutex
	sent []*mail.Message
	err  error
}

func (s *countingSender) Send(ctx context.Context, msg *mail.Message) (*mail.DeliveryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, msg)
	return &mail.DeliveryResult{MessageID: "test", Provider: "test", SentAt: time.Now()}, nil
}

func (s *countingSender) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *countingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type TestApp struct {
	server      *httptest.Server
	recorder    *telemetry.TestSpanRecorder
	tp          *trace.TracerProvider
	application *Application
	mailer      *countingSender
	store       *repository.SQLiteStore
}

type testOption func(*Config)

func SpawnTestApp(t *testing.T, opts ...testOption) *TestApp {
	t.Helper()
	recorder := telemetry.NewTestSpanRecorder()
	tp := telemetry.InitTestTracing("test-fasika-cms", "1.0.0", recorder)

	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)

	mailer := &countingSender{}
	config := &Config{
		ServiceName:    "test-fasika-cms",
		ServiceVersion: "1.0.0",
		Port:           "0",
		Logger:         logging.NewLoggerWithOutput(io.Discard, "error"),
		TracerProvider: tp,
		GinMode:        gin.TestMode,
		Subscribers:    store,
		Content:        store,
		Submissions:    store,
		Mailer:         mailer,
		BusinessName:   "Fasika Preschool",
		AdminEmail:     "office@example.com",
		NotifyTimeout:  time.Second,
		FormRateLimit:  100,
	}
	for _, opt := range opts {
		opt(config)
	}

	application, err := Build(config)
	require.NoError(t, err)
	require.NoError(t, application.SeedIfEmpty(context.Background(), ""))

	app := &TestApp{
		server:      httptest.NewServer(application.GetRouter()),
		recorder:    recorder,
		tp:          tp,
		application: application,
		mailer:      mailer,
		store:       store,
	}
	t.Cleanup(app.Close)
	return app
}

func (app *TestApp) Close() {
	app.server.Close()
	_ = app.application.Shutdown(context.Background())
	_ = app.tp.Shutdown(context.Background())
	_ = app.store.Close()
}

func (app *TestApp) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	resp, err := http.Post(app.server.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (app *TestApp) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(app.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (app *TestApp) subscribe(t *testing.T, email string) (int, map[string]any) {
	return app.post(t, "/api/subscriptions", map[string]any{"data": map[string]any{"email": email}})
}

func errorMessage(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	msg, _ := errBody["message"].(string)
	return msg
}

func TestSubscriptionCreated(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.subscribe(t, "parent@example.com")
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "parent@example.com", data["email"])
	assert.NotEmpty(t, data["id"])
	assert.NotEmpty(t, data["createdAt"])
	assert.Equal(t, 1, app.mailer.count())

	assert.GreaterOrEqual(t, len(app.recorder.GetSpansByOperation("database.write")), 1)
	assert.GreaterOrEqual(t, len(app.recorder.GetSpansByOperation("database.read")), 1)
	assert.Len(t, app.recorder.GetSpansByOperation("mail.send"), 1)
}

func TestSubscriptionDuplicate(t *testing.T) {
	app := SpawnTestApp(t)

	status, _ := app.subscribe(t, "a@b.co")
	require.Equal(t, http.StatusCreated, status)

	status, body := app.subscribe(t, "a@b.co")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Nil(t, body["data"])
	assert.Equal(t, "This email is already subscribed.", errorMessage(body))
	assert.Equal(t, 1, app.mailer.count())

	count, err := app.application.GetSubscriberService().SubscriberCount(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubscriptionInvalidPayload(t *testing.T) {
	app := SpawnTestApp(t)

	cases := map[string]any{
		"empty body":    map[string]any{},
		"missing data":  map[string]any{"email": "parent@example.com"},
		"missing email": map[string]any{"data": map[string]any{}},
		"blank email":   map[string]any{"data": map[string]any{"email": "   "}},
		"malformed":     `{"data":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			status, resp := app.post(t, "/api/subscriptions", body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Invalid request payload. Expected { data: { email } }", errorMessage(resp))
		})
	}
	assert.Zero(t, app.mailer.count())
}

func TestSubscriptionMalformedEmail(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.subscribe(t, "not-an-email")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email must be a valid email address", errorMessage(body))
	assert.Zero(t, app.mailer.count())
}

func TestSubscriptionSurvivesMailFailure(t *testing.T) {
	app := SpawnTestApp(t)
	app.mailer.fail(errors.New("smtp down"))

	status, body := app.subscribe(t, "parent@example.com")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "parent@example.com", body["data"].(map[string]any)["email"])
}

func TestSubscriptionPersistenceFailure(t *testing.T) {
	app := SpawnTestApp(t)
	require.NoError(t, app.store.Close())

	status, body := app.subscribe(t, "parent@example.com")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to create subscription. Please try again.", errorMessage(body))
}

func TestContentDocuments(t *testing.T) {
	app := SpawnTestApp(t)

	for _, kind := range models.DocumentKinds {
		t.Run(kind, func(t *testing.T) {
			status, body := app.get(t, "/api/"+kind)
			assert.Equal(t, http.StatusOK, status)
			assert.NotNil(t, body["data"])
		})
	}

	app.recorder.Clear()
	status, _ := app.get(t, "/api/about-pages")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, app.recorder.GetSpansByOperation("cache.read"))
	assert.Empty(t, app.recorder.GetSpansByOperation("database.read"))
	assert.Equal(t, len(models.DocumentKinds), app.application.GetCache().Len())
}

func TestBlogEndpoints(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.get(t, "/api/blogs?pagination[page]=1&pagination[pageSize]=2")
	require.Equal(t, http.StatusOK, status)
	posts := body["data"].([]any)
	assert.Len(t, posts, 2)
	pagination := body["meta"].(map[string]any)["pagination"].(map[string]any)
	assert.Equal(t, float64(4), pagination["total"])
	assert.Equal(t, float64(2), pagination["pageCount"])

	slug := posts[0].(map[string]any)["slug"].(string)
	status, body = app.get(t, "/api/blogs/"+slug)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, slug, body["data"].(map[string]any)["slug"])
	assert.Len(t, body["meta"].(map[string]any)["related"], 3)

	status, body = app.get(t, "/api/blogs?filters[slug][$eq]="+slug)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	page, err := app.application.GetContentService().ListBlogPosts(context.Background(), models.BlogQuery{SlugEq: slug})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, slug, page.Posts[0].Slug)

	status, body = app.get(t, "/api/blogs/does-not-exist")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", errorMessage(body))
}

func TestBlogListingHugePage(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.get(t, "/api/blogs?pagination[page]=1537228672809129303")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["data"])
	pagination := body["meta"].(map[string]any)["pagination"].(map[string]any)
	assert.Equal(t, float64(4), pagination["total"])
	assert.Equal(t, float64(service.MaxPage), pagination["page"])
}

func validTour() map[string]any {
	return map[string]any{"data": map[string]any{
		"name":      "Abebe",
		"email":     "abebe@example.com",
		"phone":     "+251911000000",
		"time":      "Morning",
		"programme": "pt",
		"age":       3,
		"source":    "Friend",
		"center":    "Bole",
	}}
}

func TestScheduleTour(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.post(t, "/api/schedules", validTour())
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "No message provided", body["data"].(map[string]any)["message"])
	assert.Equal(t, 2, app.mailer.count())

	tours, _, err := app.store.CountSubmissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tours)
}

func TestScheduleTourValidation(t *testing.T) {
	app := SpawnTestApp(t)

	tour := validTour()
	tour["data"].(map[string]any)["phone"] = "123"
	tour["data"].(map[string]any)["programme"] = "weekend"

	status, body := app.post(t, "/api/schedules", tour)
	assert.Equal(t, http.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "data.phone")
	assert.Contains(t, details, "data.programme")
	assert.Zero(t, app.mailer.count())
}

func TestContactInquiry(t *testing.T) {
	app := SpawnTestApp(t)

	status, _ := app.post(t, "/api/contact-customers", map[string]any{"data": map[string]any{
		"name":   "Sara",
		"email":  "sara@example.com",
		"phone":  "+251911000001",
		"findUs": "Instagram",
	}})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, app.mailer.count())
}

func TestFAQ(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.get(t, "/api/faq/greeting")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hi! I'm Betty, your assistant. How can I help you today?", body["data"].(map[string]any)["greeting"])

	status, body = app.post(t, "/api/faq/ask", map[string]any{"query": "What are your operating hours?"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["matched"])

	status, _ = app.post(t, "/api/faq/ask", map[string]any{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	// The seeded admission page adds one FAQ the knowledge base lacks.
	assert.Equal(t, len(faq.DefaultKnowledgeBase())+1, app.application.GetBot().Len())
}

func TestFormRateLimit(t *testing.T) {
	app := SpawnTestApp(t, func(c *Config) { c.FormRateLimit = 2 })

	for i := 0; i < 2; i++ {
		status, _ := app.post(t, "/api/faq/ask", map[string]any{"query": "hours"})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := app.post(t, "/api/faq/ask", map[string]any{"query": "hours"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests. Please try again later.", errorMessage(body))

	status, _ = app.get(t, "/api/global")
	assert.Equal(t, http.StatusOK, status)
}

func TestHealth(t *testing.T) {
	app := SpawnTestApp(t)

	status, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
