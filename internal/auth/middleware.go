// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware guards moderation routes with Bearer-token authentication.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware creates authentication middleware backed by the JWT manager.
func NewMiddleware(jwt *JWTManager) *Middleware {
	return &Middleware{jwt: jwt}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// On success the claims are placed in the request context for handlers.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Debug().Err(err).Msg("Token validation failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// unauthorized writes a 401 in the standard response envelope.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Warn().Err(err).Msg("Failed to encode auth error response")
	}
}
