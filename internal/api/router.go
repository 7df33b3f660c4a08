// Package api provides the HTTP API for skyreport.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/skyreport/skyreport/internal/api/handler"
	"github.com/skyreport/skyreport/internal/api/middleware"
	"github.com/skyreport/skyreport/internal/config"
	"github.com/skyreport/skyreport/internal/report"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Pipeline    *report.Service
	Config      config.Config
	DB          handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "skyreport-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	reportHandler := handler.NewReportHandler(cfg.Pipeline, cfg.Config)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	exportRateLimit := middleware.RateLimitByIP(middleware.ExportRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Ingestion: fetch upstream and persist.
		r.With(standardRateLimit).Get("/reports/weather", reportHandler.IngestWeather)

		// Exports render per request; keep them on the stricter limit.
		r.Route("/exports", func(r chi.Router) {
			r.Use(exportRateLimit)
			r.Get("/excel", reportHandler.ExportExcel)
			r.Get("/pdf", reportHandler.ExportPDF)
		})
	})

	return r
}
