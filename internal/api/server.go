// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rowanfield/compostly/internal/auth"
	"github.com/rowanfield/compostly/internal/notification"
	"github.com/rowanfield/compostly/internal/pile"
	"github.com/rowanfield/compostly/internal/platform/config"
	"github.com/rowanfield/compostly/internal/platform/constants"
	"github.com/rowanfield/compostly/internal/platform/middleware"
	"github.com/rowanfield/compostly/internal/platform/respond"
	"github.com/rowanfield/compostly/internal/recipe"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, and the profile endpoint.
	Auth *auth.Handler

	// Pile handles compost piles and their health timelines.
	Pile *pile.Handler

	// Catalogue handles the shared recipe and ingredient tables.
	Catalogue *recipe.Handler

	// Notification handles per-pile alerts and the unread counter.
	Notification *notification.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Routes needing an identity mount [auth.RequireIdentity] themselves; the
// global chain stays authentication-free so the public catalogue and the
// probes cost nothing extra.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver auth.IdentityResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration, plus the legacy
	// root status line API clients poll.
	r.Get("/", rootStatus)
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Mount("/users", h.Auth.Routes())
	r.Mount("/compost-piles", h.Pile.Routes(resolver))
	r.Mount("/recipes", h.Catalogue.RecipeRoutes(resolver))
	r.Mount("/ingredients", h.Catalogue.IngredientRoutes(resolver))
	r.Mount("/notifications", h.Notification.Routes(resolver))

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// rootStatus handles GET / — the fixed banner existing clients check for.
func rootStatus(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "Compost API is online"})
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
