// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/launchwindow/server/internal/config"
)

// NewRouter assembles the HTTP surface: public read endpoints, the
// rate-limited admin group, the Prometheus exposition endpoint, and a
// liveness probe.
func NewRouter(handler *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		r.Get("/launches", handler.Launches)
		r.Get("/launches/{id}", handler.Launch)
		r.Get("/launches/{id}/streams", handler.Streams)
		r.Get("/astronauts/{id}", handler.Astronaut)

		r.Route("/admin", func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.AdminRateLimit, time.Minute))

			r.Post("/sync/launches", handler.SyncLaunches)
			r.Post("/sync/streams/{id}", handler.SyncStreams)
			r.Get("/staleness", handler.Staleness)
			r.Post("/archive", handler.Archive)
			r.Post("/cleanup/orphans", handler.CleanupOrphans)
			r.Get("/cleanup/stats", handler.CleanupStats)
		})
	})

	return r
}
