// Package smoke checks a deployed content API end to end through the typed
// client: every page document, the blog listing and one post, the FAQ bot,
// and optionally a newsletter signup.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/client"
	"fasika-cms/internal/logging"
)

type Check struct {
	Name     string
	Err      error
	Duration time.Duration
}

type Report struct {
	Checks []Check
}

// Failed returns the checks that returned an error.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Err joins every failed check into one error, or nil when all passed.
func (r *Report) Err() error {
	var errs []error
	for _, c := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", c.Name, c.Err))
	}
	return errors.Join(errs...)
}

var errEmpty = errors.New("empty response")

// Run executes the checks in order. It subscribes subscribeEmail when it is
// set; an address that is already on the list passes.
func Run(ctx context.Context, c *client.Client, subscribeEmail string, logger *logging.ContextLogger) *Report {
	tracer := otel.Tracer("smoke")
	ctx, span := tracer.Start(ctx, "smoke.run")
	defer span.End()

	report := &Report{}
	check := func(name string, fn func(context.Context) error) {
		ctx, span := tracer.Start(ctx, "smoke.check", trace.WithAttributes(attribute.String("check", name)))
		defer span.End()

		start := time.Now()
		err := fn(ctx)
		report.Checks = append(report.Checks, Check{Name: name, Err: err, Duration: time.Since(start)})

		fields := logrus.Fields{"check": name, "duration_ms": time.Since(start).Milliseconds()}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorWithTracing(ctx, "Smoke check failed", err, fields)
			return
		}
		logger.DebugWithTracing(ctx, "Smoke check passed", fields)
	}

	check("hero-sections", func(ctx context.Context) error {
		hero, err := c.HeroSections(ctx)
		if err == nil && len(hero) == 0 {
			err = errEmpty
		}
		return err
	})
	check("global", func(ctx context.Context) error {
		_, err := c.Navigation(ctx)
		return err
	})
	check("about-pages", func(ctx context.Context) error {
		_, err := c.About(ctx)
		return err
	})
	check("admission-pages", func(ctx context.Context) error {
		_, err := c.Admission(ctx)
		return err
	})
	check("service-pages", func(ctx context.Context) error {
		_, err := c.Services(ctx)
		return err
	})
	check("contact-uses", func(ctx context.Context) error {
		_, err := c.ContactInfo(ctx)
		return err
	})
	check("blogs", func(ctx context.Context) error {
		page, err := c.BlogPosts(ctx, 1, 1)
		if err != nil {
			return err
		}
		if len(page.Posts) == 0 {
			return nil
		}
		_, _, err = c.BlogPost(ctx, page.Posts[0].Slug)
		return err
	})
	check("faq-greeting", func(ctx context.Context) error {
		greeting, err := c.Greeting(ctx)
		if err == nil && greeting.Greeting == "" {
			err = errEmpty
		}
		return err
	})

	if subscribeEmail != "" {
		check("subscribe", func(ctx context.Context) error {
			out := c.Subscribe(ctx, subscribeEmail)
			if out.Status == client.Failed {
				return errors.New(out.Message)
			}
			return nil
		})
	}

	failed := len(report.Failed())
	span.SetAttributes(
		attribute.Int("smoke.checks", len(report.Checks)),
		attribute.Int("smoke.failed", failed),
	)
	logger.InfoWithTracing(ctx, "Smoke run finished", logrus.Fields{
		"checks": len(report.Checks),
		"failed": failed,
	})
	return report
}
