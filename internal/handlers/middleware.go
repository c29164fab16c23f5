package handlers

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	"fasika-cms/internal/logging"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

// RequestLogger logs one line per request with the active trace IDs.
func RequestLogger(logger *logging.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.WithTracing(c.Request.Context()).WithFields(logrus.Fields{
			"method":     method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}).Info("HTTP request completed")
	}
}

// RateLimit rejects clients that exceed l with 429 and a Retry-After header.
// Clients are keyed by IP; the X-RateLimit-* headers are set on every request.
func RateLimit(l *limiter.Limiter, logger *logging.ContextLogger) gin.HandlerFunc {
	return mgin.NewMiddleware(l,
		mgin.WithKeyGetter(func(c *gin.Context) string { return c.ClientIP() }),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.Header("Retry-After", strconv.FormatInt(retryAfter(c.Writer.Header().Get("X-RateLimit-Reset"), time.Now()), 10))
			logger.InfoWithTracing(c.Request.Context(), "Rate limit exceeded", logrus.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			})
			respondError(c, http.StatusTooManyRequests, MsgTooManyRequests, nil)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.ErrorWithTracing(c.Request.Context(), "Rate limiter store failed", err, logrus.Fields{
				"path": c.Request.URL.Path,
			})
			respondError(c, http.StatusInternalServerError, "Internal Server Error", nil)
		}),
	)
}

// retryAfter converts an X-RateLimit-Reset unix timestamp into whole seconds
// from now, never less than one.
func retryAfter(reset string, now time.Time) int64 {
	at, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return 1
	}
	wait := int64(math.Ceil(time.Unix(at, 0).Sub(now).Seconds()))
	if wait < 1 {
		return 1
	}
	return wait
}

// CORS allows the configured frontend origins. A "*" entry allows any origin.
// It returns nil when no origins are configured.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
