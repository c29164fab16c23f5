package smoke

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasika-cms/internal/app"
	"fasika-cms/internal/client"
	"fasika-cms/internal/logging"
)

func spawnServer(t *testing.T) *httptest.Server {
	t.Helper()
	application, err := app.Build(&app.Config{
		ServiceName: "smoke-test",
		Port:        "0",
		Logger:      logging.NewLoggerWithOutput(io.Discard, "error"),
		GinMode:     gin.TestMode,
	})
	require.NoError(t, err)
	require.NoError(t, application.SeedIfEmpty(context.Background(), ""))

	server := httptest.NewServer(application.GetRouter())
	t.Cleanup(func() {
		server.Close()
		_ = application.Shutdown(context.Background())
	})
	return server
}

func TestRunAgainstSeededServer(t *testing.T) {
	server := spawnServer(t)
	var logs bytes.Buffer
	logger := logging.NewLoggerWithOutput(&logs, "debug")

	report := Run(context.Background(), client.New(server.URL), "smoke@fasika.example", logger)
	require.NoError(t, report.Err())
	assert.Len(t, report.Checks, 9)
	assert.Contains(t, logs.String(), "Smoke check passed")

	report = Run(context.Background(), client.New(server.URL), "smoke@fasika.example", logger)
	assert.NoError(t, report.Err(), "an address already on the list passes")
}

func TestRunReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	report := Run(context.Background(), client.New(server.URL), "", logging.NewLoggerWithOutput(io.Discard, "error"))
	assert.Len(t, report.Checks, 8)
	assert.Len(t, report.Failed(), 8)
	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), "hero-sections: api error 404")
}
