package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions tunes the global middlewares. Zero values fall back to defaults.
type RouterOptions struct {
	RateLimitPerMinute int           // requests per client IP; negative disables
	RequestTimeout     time.Duration // context deadline per request
}

const (
	defaultRateLimitPerMinute = 60
	defaultRequestTimeout     = 10 * time.Second
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter, Timeout).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = defaultRateLimitPerMinute
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute),
		middleware.Timeout(opts.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/performance", handler.GetPerformance)
		v1.GET("/capital", handler.GetCapital)
		v1.GET("/inpayments", handler.GetInpayments)
		v1.GET("/dividends", handler.GetDividends)
		v1.GET("/tags", handler.GetTags)
		v1.POST("/xirr", handler.PostXIRR)
	}

	return router
}
