package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreDapr   = "dapr"

	MailSMTP = "smtp"
	MailDapr = "dapr"
	MailLog  = "log"
)

type Config struct {
	Port           string
	ServiceName    string
	ServiceVersion string
	GinMode        string
	LogLevel       string

	StoreBackend   string
	DatabasePath   string
	DaprStateStore string

	MailBackend     string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	EmailFrom       string
	EmailReplyTo    string
	AdminEmail      string
	DaprMailBinding string
	BusinessName    string
	NotifyTimeout   time.Duration

	ContentCacheTTL time.Duration
	SeedPath        string

	FormRateLimit  int
	FormRateWindow time.Duration

	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVICE_NAME", "fasika-cms")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", StoreSQLite)
	v.SetDefault("DATABASE_PATH", "data/content.db")
	v.SetDefault("DAPR_STATE_STORE", "statestore")
	v.SetDefault("MAIL_BACKEND", MailSMTP)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("EMAIL_ADDRESS_FROM", "")
	v.SetDefault("EMAIL_ADDRESS_REPLY", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("DAPR_MAIL_BINDING", "smtp")
	v.SetDefault("BUSINESS_NAME", "Fasika Preschool and International Childcare Center")
	v.SetDefault("NOTIFY_TIMEOUT", 10*time.Second)
	v.SetDefault("CONTENT_CACHE_TTL", 5*time.Minute)
	v.SetDefault("SEED_PATH", "")
	v.SetDefault("FORM_RATE_LIMIT", 10)
	v.SetDefault("FORM_RATE_WINDOW", time.Minute)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

// Load reads configuration from the environment. When dotEnvPath exists it
// is loaded first; variables already set in the environment win.
func Load(dotEnvPath string) (*Config, error) {
	if err := loadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config.godotenv(%s): %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config.os.Stat(%s): %w", path, err)
	}
	return nil
}

// SmokeConfig drives the cmd/smoke deployment check.
type SmokeConfig struct {
	BaseURL        string
	Timeout        time.Duration
	SubscribeEmail string
	LogLevel       string
}

// LoadSmoke reads the SMOKE_* variables the same way Load reads the server's.
func LoadSmoke(dotEnvPath string) (*SmokeConfig, error) {
	if err := loadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("SMOKE_BASE_URL", "http://localhost:8080")
	v.SetDefault("SMOKE_TIMEOUT", 15*time.Second)
	v.SetDefault("SMOKE_SUBSCRIBE_EMAIL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &SmokeConfig{
		BaseURL:        strings.TrimSpace(v.GetString("SMOKE_BASE_URL")),
		Timeout:        v.GetDuration("SMOKE_TIMEOUT"),
		SubscribeEmail: strings.TrimSpace(v.GetString("SMOKE_SUBSCRIBE_EMAIL")),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}
	var errs []error
	if cfg.BaseURL == "" {
		errs = append(errs, errors.New("SMOKE_BASE_URL is required"))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, errors.New("SMOKE_TIMEOUT must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		ServiceName:        v.GetString("SERVICE_NAME"),
		ServiceVersion:     v.GetString("SERVICE_VERSION"),
		GinMode:            v.GetString("GIN_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		StoreBackend:       strings.ToLower(v.GetString("STORE_BACKEND")),
		DatabasePath:       v.GetString("DATABASE_PATH"),
		DaprStateStore:     v.GetString("DAPR_STATE_STORE"),
		MailBackend:        strings.ToLower(v.GetString("MAIL_BACKEND")),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUser:           v.GetString("SMTP_USER"),
		SMTPPass:           v.GetString("SMTP_PASS"),
		EmailFrom:          v.GetString("EMAIL_ADDRESS_FROM"),
		EmailReplyTo:       v.GetString("EMAIL_ADDRESS_REPLY"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		DaprMailBinding:    v.GetString("DAPR_MAIL_BINDING"),
		BusinessName:       v.GetString("BUSINESS_NAME"),
		NotifyTimeout:      v.GetDuration("NOTIFY_TIMEOUT"),
		ContentCacheTTL:    v.GetDuration("CONTENT_CACHE_TTL"),
		SeedPath:           v.GetString("SEED_PATH"),
		FormRateLimit:      v.GetInt("FORM_RATE_LIMIT"),
		FormRateWindow:     v.GetDuration("FORM_RATE_WINDOW"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case StoreSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite store"))
		}
	case StoreDapr:
		if c.DaprStateStore == "" {
			errs = append(errs, errors.New("DAPR_STATE_STORE is required for the dapr store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.MailBackend {
	case MailSMTP:
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp mail backend"))
		}
		if c.SMTPPort <= 0 {
			errs = append(errs, fmt.Errorf("invalid SMTP_PORT %d", c.SMTPPort))
		}
	case MailDapr:
		if c.DaprMailBinding == "" {
			errs = append(errs, errors.New("DAPR_MAIL_BINDING is required for the dapr mail backend"))
		}
	case MailLog:
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_BACKEND %q", c.MailBackend))
	}

	if c.NotifyTimeout <= 0 {
		errs = append(errs, errors.New("NOTIFY_TIMEOUT must be positive"))
	}
	if c.FormRateLimit <= 0 || c.FormRateWindow <= 0 {
		errs = append(errs, errors.New("FORM_RATE_LIMIT and FORM_RATE_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

// UsesDapr reports whether any backend needs a Dapr sidecar client.
func (c *Config) UsesDapr() bool {
	return c.StoreBackend == StoreDapr || c.MailBackend == MailDapr
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
