package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/config"
	"github.com/guttosm/stockperf/internal/api"
	"github.com/guttosm/stockperf/internal/service"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the configured database and its repositories (OpenStores).
//   - Builds the performance service on top of the repositories.
//   - Creates the HTTP handler layer and the router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close the database handle.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	stores, err := OpenStores(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	svc := service.NewPerformanceService(stores.Transactions, stores.Quotes)
	handler := api.NewHandler(svc)

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
	})

	api.NewHealthHandler(stores.DB.PingContext).Register(router)

	cleanup := func() {
		_ = stores.Close()
	}

	return router, cleanup, nil
}
