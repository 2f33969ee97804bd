// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"net/http"
	"strings"

	"github.com/ideabank/ideabank/internal/metrics"
	"github.com/ideabank/ideabank/internal/tracking"
	"github.com/ideabank/ideabank/internal/validation"
)

// TrackingByEmail handles GET /api/v1/tracking?email=...
// Returns every tracking record for the submitter, newest first.
func (h *Handler) TrackingByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email query parameter is required", nil)
		return
	}

	var probe struct {
		Email string `validate:"required,email"`
	}
	probe.Email = email
	if err := validation.ValidateStruct(&probe); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email must be a valid email address", nil)
		return
	}

	views, err := h.db.GetTrackingsByEmail(r.Context(), email)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	metrics.RecordTrackingLookup("email")
	respondSuccess(w, http.StatusOK, views)
}

// TrackingByCode handles GET /api/v1/tracking/{code}.
// Codes are case-normalized, so submitters can type them in lowercase.
func (h *Handler) TrackingByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if !tracking.ValidCode(code) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tracking code must be 8 alphanumeric characters", nil)
		return
	}

	view, err := h.db.GetTrackingByCode(r.Context(), code)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	metrics.RecordTrackingLookup("code")
	respondSuccess(w, http.StatusOK, view)
}
