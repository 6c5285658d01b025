/*
Package handler provides the HTTP handlers and routing setup for the mock API server.

This file defines the main Router, applying middleware for logging, CORS, and
IP-based rate limiting before delegating to the collection handlers. Routes
mirror the hosted collection store the client was originally developed
against.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"eventbook/internal/pkg/limiter"
	"eventbook/internal/pkg/logx"
	"eventbook/internal/pkg/resp"
)

const (
	RequestRate  = 25
	RequestBurst = 50
)

// Router sets up the main HTTP routing table (chi.Router) for the mock API
// server. It configures CORS for the development shell and applies a global
// IP rate limiter so the client's 429 retry path can be exercised locally.
func Router(deps *AppDeps) http.Handler {
	requestLimiter := limiter.NewIPRateLimiter(rate.Limit(RequestRate), RequestBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{"*"}
	if deps.Config.Environment != "development" && len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(requestLimiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.Data(w, map[string]string{
			"status":  "ok",
			"service": "EventBook Mock API",
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/events", HandleListEvents(deps))
		api.Get("/events/{id}", HandleGetEvent(deps))

		api.Get("/users", HandleListUsers(deps))
		api.Post("/users", HandleCreateUser(deps))
		api.Get("/users/{id}", HandleGetUser(deps))
		api.Put("/users/{id}", HandleUpdateUser(deps))

		api.Get("/registrations", HandleListRegistrations(deps))
		api.Post("/registrations", HandleCreateRegistration(deps))
		api.Delete("/registrations/{id}", HandleDeleteRegistration(deps))
	})

	return r
}
