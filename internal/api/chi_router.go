// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ideabank/ideabank/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our HandlerFunc-style middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())      // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(RequestLogging())            // Per-request completion log
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints. Permissive rate limiting so monitoring tools can
	// poll frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Authentication endpoints. Strict limits against brute force.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
	})

	// Submission endpoints. Reads are public; writes get the tighter
	// write limit.
	r.Route("/api/v1/submissions", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Get("/", router.handler.ListSubmissions)
		r.Get("/stats/categories", router.handler.CategoryStats)
		r.Get("/{id}", router.handler.GetSubmission)
		r.Get("/{id}/votes", router.handler.ListVotes)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/", router.handler.CreateSubmission)
			r.Post("/{id}/votes", router.handler.CastVote)
		})

		// Editing and removal are moderator actions.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Use(chiMiddleware(router.authMW.Authenticate))
			r.Put("/{id}", router.handler.UpdateSubmission)
			r.Delete("/{id}", router.handler.DeleteSubmission)
		})
	})

	// Public voting feed.
	r.Route("/api/v1/voting", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/", router.handler.VotingList)
	})

	// Tracking lookups for submitters.
	r.Route("/api/v1/tracking", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue)
		r.Get("/", router.handler.TrackingByEmail)
		r.Get("/{code}", router.handler.TrackingByCode)
	})

	// Moderation endpoints require a valid moderator token.
	r.Route("/api/v1/moderation", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue)
		r.Use(chiMiddleware(router.authMW.Authenticate))

		r.Get("/submissions", router.handler.ModerationQueue)
		r.Put("/submissions/{id}/status", router.handler.UpdateStatus)
		r.Delete("/submissions/{id}/votes/{voteID}", router.handler.RetractVote)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// chiPathValue bridges Chi URL params to Go 1.22's r.PathValue().
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
