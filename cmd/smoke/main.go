package main

import (
	"context"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"fasika-cms/internal/client"
	"fasika-cms/internal/config"
	"fasika-cms/internal/logging"
	"fasika-cms/internal/smoke"
)

func main() {
	cfg, err := config.LoadSmoke(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLoggerWithOutput(os.Stdout, cfg.LogLevel)
	api := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout))

	ctx, cancel := context.WithTimeout(context.Background(), 10*cfg.Timeout)
	defer cancel()

	report := smoke.Run(ctx, api, cfg.SubscribeEmail, logger)
	if err := report.Err(); err != nil {
		logger.WithFields(logrus.Fields{"base_url": cfg.BaseURL}).WithError(err).Error("Smoke check failed")
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{"base_url": cfg.BaseURL, "checks": len(report.Checks)}).Info("Smoke check passed")
}
