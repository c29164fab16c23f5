package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, "data/content.db", cfg.DatabasePath)
	assert.Equal(t, MailSMTP, cfg.MailBackend)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ContentCacheTTL)
	assert.Equal(t, "Fasika Preschool and International Childcare Center", cfg.BusinessName)
	assert.False(t, cfg.UsesDapr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "DAPR")
	t.Setenv("MAIL_BACKEND", "log")
	t.Setenv("SMTP_USER", "office@example.com")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com, http://localhost:3000,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoreDapr, cfg.StoreBackend)
	assert.Equal(t, MailLog, cfg.MailBackend)
	assert.Equal(t, "office@example.com", cfg.EmailFrom)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, []string{"https://example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.UsesDapr())
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUSINESS_NAME=Test Daycare\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BUSINESS_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Daycare", cfg.BusinessName)
}

func TestValidateRejectsBadBackends(t *testing.T) {
	cfg := &Config{
		StoreBackend:   "postgres",
		MailBackend:    MailSMTP,
		NotifyTimeout:  time.Second,
		FormRateLimit:  1,
		FormRateWindow: time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_BACKEND "postgres"`)
	assert.Contains(t, err.Error(), "SMTP_HOST is required")
}

func TestLoadSmoke(t *testing.T) {
	cfg, err := LoadSmoke("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.SubscribeEmail)

	t.Setenv("SMOKE_BASE_URL", "https://cms.fasika.example")
	t.Setenv("SMOKE_SUBSCRIBE_EMAIL", " smoke@fasika.example ")
	t.Setenv("SMOKE_TIMEOUT", "0s")
	_, err = LoadSmoke("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMOKE_TIMEOUT must be positive")

	t.Setenv("SMOKE_TIMEOUT", "5s")
	cfg, err = LoadSmoke("")
	require.NoError(t, err)
	assert.Equal(t, "https://cms.fasika.example", cfg.BaseURL)
	assert.Equal(t, "smoke@fasika.example", cfg.SubscribeEmail)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
