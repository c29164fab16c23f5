package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"fasika-cms/internal/cache"
	"fasika-cms/internal/content"
	"fasika-cms/internal/faq"
	"fasika-cms/internal/handlers"
	"fasika-cms/internal/logging"
	"fasika-cms/internal/mail"
	"fasika-cms/internal/models"
	"fasika-cms/internal/repository"
	"fasika-cms/internal/service"
	"fasika-cms/internal/validation"
)

const botName = "Betty"

type Config struct {
	ServiceName    string
	ServiceVersion string
	Port           string
	Logger         *logging.ContextLogger
	TracerProvider trace.TracerProvider
	GinMode        string

	// Storage; nil fields fall back to in-memory implementations.
	Subscribers repository.SubscriberRepository
	Content     repository.ContentRepository
	Submissions repository.SubmissionRepository

	// Mailer defaults to logging messages instead of sending them.
	Mailer          mail.Sender
	BusinessName    string
	AdminEmail      string
	NotifyTimeout   time.Duration
	ContentCacheTTL time.Duration

	FormRateLimit      int
	FormRateWindow     time.Duration
	CORSAllowedOrigins []string
}

type Application struct {
	server      *http.Server
	config      *Config
	router      *gin.Engine
	cache       *cache.InMemoryCache
	bot         *faq.Bot
	subscribers *service.SubscriberService
	content     *service.ContentService
	submissions *service.SubmissionService
}

func Build(config *Config) (*Application, error) {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	if config.Logger == nil {
		config.Logger = logging.NewLogger()
	}
	applyDefaults(config)
	validation.Init()

	templates, err := mail.NewTemplates(config.BusinessName)
	if err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}

	cacheInstance := cache.NewInMemoryCache()
	notifier := service.NewNotifier(config.Mailer, templates, config.AdminEmail, config.NotifyTimeout, config.Logger)
	subscriberService := service.NewSubscriberService(config.Subscribers, notifier, config.Logger)
	contentService := service.NewContentService(config.Content, cacheInstance, config.ContentCacheTTL, config.Logger)
	submissionService := service.NewSubmissionService(config.Submissions, notifier, config.Logger)
	bot := faq.NewBot(botName, faq.DefaultKnowledgeBase())
	formLimiter := newFormLimiter(config)

	subscriberHandler := handlers.NewSubscriberHandler(subscriberService, config.Logger)
	contentHandler := handlers.NewContentHandler(contentService, config.Logger)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, config.Logger)
	faqHandler := handlers.NewFAQHandler(bot, config.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	var otelOpts []otelgin.Option
	if config.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(config.TracerProvider))
	}
	router.Use(otelgin.Middleware(config.ServiceName, otelOpts...))
	router.Use(handlers.RequestLogger(config.Logger))
	if corsMiddleware := handlers.CORS(config.CORSAllowedOrigins); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	rateLimited := handlers.RateLimit(formLimiter, config.Logger)

	api := router.Group("/api")
	{
		api.POST("/subscriptions", rateLimited, subscriberHandler.Subscribe)
		api.POST("/schedules", rateLimited, submissionHandler.CreateTourRequest)
		api.POST("/contact-customers", rateLimited, submissionHandler.CreateContactInquiry)
		api.POST("/faq/ask", rateLimited, faqHandler.Ask)
		api.GET("/faq/greeting", faqHandler.Greeting)

		api.GET("/"+models.KindHeroSections, handlers.Document(contentHandler, models.KindHeroSections, contentService.HeroSections))
		api.GET("/"+models.KindGlobal, handlers.Document(contentHandler, models.KindGlobal, contentService.Navigation))
		api.GET("/"+models.KindAboutPages, handlers.Document(contentHandler, models.KindAboutPages, contentService.About))
		api.GET("/"+models.KindAdmissionPages, handlers.Document(contentHandler, models.KindAdmissionPages, contentService.Admission))
		api.GET("/"+models.KindServicePages, handlers.Document(contentHandler, models.KindServicePages, contentService.Services))
		api.GET("/"+models.KindContactUses, handlers.Document(contentHandler, models.KindContactUses, contentService.ContactInfo))

		api.GET("/blogs", contentHandler.ListBlogPosts)
		api.GET("/blogs/:slug", contentHandler.GetBlogPost)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   config.ServiceName,
			"version":   config.ServiceVersion,
		})
	})

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{
		server:      server,
		config:      config,
		router:      router,
		cache:       cacheInstance,
		bot:         bot,
		subscribers: subscriberService,
		content:     contentService,
		submissions: submissionService,
	}, nil
}

func applyDefaults(config *Config) {
	if config.Subscribers == nil {
		config.Subscribers = repository.NewInMemorySubscriberRepository()
	}
	if config.Content == nil || config.Submissions == nil {
		store := repository.NewInMemoryContentStore()
		if config.Content == nil {
			config.Content = store
		}
		if config.Submissions == nil {
			config.Submissions = store
		}
	}
	if config.Mailer == nil {
		config.Mailer = mail.NewLogSender(config.Logger)
	}
	if config.NotifyTimeout <= 0 {
		config.NotifyTimeout = 10 * time.Second
	}
	if config.ContentCacheTTL <= 0 {
		config.ContentCacheTTL = 5 * time.Minute
	}
	if config.FormRateLimit <= 0 {
		config.FormRateLimit = 10
	}
	if config.FormRateWindow <= 0 {
		config.FormRateWindow = time.Minute
	}
}

// newFormLimiter allows FormRateLimit form posts per client IP in each
// FormRateWindow, counted in process memory.
func newFormLimiter(config *Config) *limiter.Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "fasika-forms",
		CleanUpInterval: config.FormRateWindow,
	})
	return limiter.New(store, limiter.Rate{
		Period: config.FormRateWindow,
		Limit:  int64(config.FormRateLimit),
	})
}

// SeedIfEmpty loads the seed at path (the embedded default when empty) into
// an empty content store, then teaches the FAQ bot the admission page FAQs.
func (app *Application) SeedIfEmpty(ctx context.Context, path string) error {
	hasContent, err := app.content.HasContent(ctx)
	if err != nil {
		return fmt.Errorf("checking content store: %w", err)
	}
	if !hasContent {
		doc, err := content.LoadSeed(path)
		if err != nil {
			return err
		}
		if err := app.content.Seed(ctx, doc); err != nil {
			return err
		}
	}

	admission, err := app.content.Admission(ctx)
	switch {
	case err == nil:
		app.bot.AddFAQs(admission.FAQs)
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("loading admission FAQs: %w", err)
	}

	app.config.Logger.WithFields(logrus.Fields{
		"seeded":      !hasContent,
		"faq_entries": app.bot.Len(),
	}).Info("Content ready")
	return nil
}

func (app *Application) Run() error {
	app.config.Logger.Info("Starting server on :" + app.config.Port)
	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.config.Logger.Info("Shutting down server...")
	defer app.cache.Close()
	return app.server.Shutdown(ctx)
}

func (app *Application) GetCache() *cache.InMemoryCache {
	return app.cache
}

func (app *Application) GetSubscriberService() *service.SubscriberService {
	return app.subscribers
}

func (app *Application) GetContentService() *service.ContentService {
	return app.content
}

func (app *Application) GetBot() *faq.Bot {
	return app.bot
}

func (app *Application) GetRouter() *gin.Engine {
	return app.router
}
