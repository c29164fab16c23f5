package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	dapr "github.com/dapr/go-sdk/client"
	"go.opentelemetry.io/otel"

	"fasika-cms/internal/app"
	"fasika-cms/internal/config"
	"fasika-cms/internal/logging"
	"fasika-cms/internal/mail"
	"fasika-cms/internal/repository"
	"fasika-cms/internal/telemetry"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLoggerWithOutput(os.Stdout, cfg.LogLevel)

	tp, err := telemetry.InitTracing(cfg.ServiceName, cfg.ServiceVersion, nil)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := telemetry.ShutdownTracing(context.Background(), tp); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	var daprClient dapr.Client
	if cfg.UsesDapr() {
		daprClient, err = dapr.NewClient()
		if err != nil {
			log.Fatalf("Failed to connect to Dapr sidecar: %v", err)
		}
		defer daprClient.Close()
	}

	appConfig := &app.Config{
		ServiceName:        cfg.ServiceName,
		ServiceVersion:     cfg.ServiceVersion,
		Port:               cfg.Port,
		Logger:             logger,
		TracerProvider:     otel.GetTracerProvider(),
		GinMode:            cfg.GinMode,
		Mailer:             newMailer(cfg, daprClient, logger),
		BusinessName:       cfg.BusinessName,
		AdminEmail:         cfg.AdminEmail,
		NotifyTimeout:      cfg.NotifyTimeout,
		ContentCacheTTL:    cfg.ContentCacheTTL,
		FormRateLimit:      cfg.FormRateLimit,
		FormRateWindow:     cfg.FormRateWindow,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	closeStore, err := configureStorage(cfg, appConfig, daprClient)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	application, err := app.Build(appConfig)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = application.SeedIfEmpty(seedCtx, cfg.SeedPath)
	cancelSeed()
	if err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// configureStorage wires the repositories for cfg.StoreBackend and returns a
// func that releases them. With the dapr backend, subscribers live in the
// Dapr state store and page content stays in SQLite.
func configureStorage(cfg *config.Config, appConfig *app.Config, daprClient dapr.Client) (func(), error) {
	if cfg.StoreBackend == config.StoreMemory {
		return func() {}, nil
	}

	store, err := repository.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.DatabasePath, err)
	}
	appConfig.Content = store
	appConfig.Submissions = store
	appConfig.Subscribers = store

	if cfg.StoreBackend == config.StoreDapr {
		appConfig.Subscribers = repository.NewDaprSubscriberRepository(daprClient, cfg.DaprStateStore)
	}
	return func() { _ = store.Close() }, nil
}

func newMailer(cfg *config.Config, daprClient dapr.Client, logger *logging.ContextLogger) mail.Sender {
	switch cfg.MailBackend {
	case config.MailSMTP:
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
			ReplyTo:  cfg.EmailReplyTo,
			Timeout:  cfg.NotifyTimeout,
		})
	case config.MailDapr:
		return mail.NewDaprBindingSender(daprClient, cfg.DaprMailBinding, cfg.EmailFrom, cfg.EmailReplyTo)
	default:
		return mail.NewLogSender(logger)
	}
}
