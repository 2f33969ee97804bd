// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"net/http"
	"time"

	"github.com/ideabank/ideabank/internal/auth"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

// Login handles POST /api/v1/auth/login.
// Credential failures get a uniform 401 regardless of which check failed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := auth.CheckAdminCredentials(&h.cfg.Security, req.Username, req.Password); err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Str("remote_ip", clientIP(r)).
			Msg("Failed login attempt")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid username or password", nil)
		return
	}

	token, err := h.jwt.GenerateToken(req.Username, auth.RoleModerator)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue token", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("username", sanitizeLogValue(req.Username)).
		Msg("Moderator logged in")

	respondSuccess(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.jwt.SessionTimeout()),
		Username:  req.Username,
		Role:      auth.RoleModerator,
	})
}
