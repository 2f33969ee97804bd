// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package api provides the HTTP interface: request handlers, the response
// envelope, and routing via the Chi router.
package api

import (
	"time"

	"github.com/ideabank/ideabank/internal/auth"
	"github.com/ideabank/ideabank/internal/cache"
	"github.com/ideabank/ideabank/internal/config"
	"github.com/ideabank/ideabank/internal/database"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	db    *database.DB
	cfg   *config.Config
	jwt   *auth.JWTManager
	cache *cache.Cache
}

// NewHandler creates a handler with its dependencies.
func NewHandler(db *database.DB, cfg *config.Config, jwt *auth.JWTManager) *Handler {
	return &Handler{
		db:    db,
		cfg:   cfg,
		jwt:   jwt,
		cache: cache.New(time.Minute),
	}
}

// Router wires handlers, middleware factories, and authentication into
// the HTTP routing table.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authMW        *auth.Middleware
}

// NewRouter creates a router from the handler and security configuration.
func NewRouter(handler *Handler, authMW *auth.Middleware) *Router {
	secCfg := handler.cfg.Security
	return &Router{
		handler: handler,
		chiMiddleware: NewChiMiddlewareFromConfig(
			secCfg.CORSOrigins,
			secCfg.RateLimitReqs,
			secCfg.RateLimitWindow,
			secCfg.RateLimitDisabled,
		),
		authMW: authMW,
	}
}
