// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"net/http"

	"github.com/ideabank/ideabank/internal/auth"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/metrics"
	"github.com/ideabank/ideabank/internal/models"
)

// ModerationQueue handles GET /api/v1/moderation/submissions.
// Unlike the public listing this covers every status, including inactive
// submissions, unless the caller filters.
func (h *Handler) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.getPagination(r)

	result, err := h.db.QueryForModeration(r.Context(), getSubmissionFilter(r), page, pageSize)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// UpdateStatus handles PUT /api/v1/moderation/submissions/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	var req models.StatusUpdateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	sub, err := h.db.GetSubmission(r.Context(), id)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	from := sub.Status

	updated, err := h.db.UpdateStatus(r.Context(), id, req.Status, req.ModeratorNote)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	metrics.RecordStatusTransition(string(from), string(req.Status))

	moderator := "unknown"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		moderator = claims.Username
	}
	logging.Ctx(r.Context()).Info().
		Str("submission_id", id.String()).
		Str("from", string(from)).
		Str("to", string(req.Status)).
		Str("moderator", sanitizeLogValue(moderator)).
		Msg("Submission status updated")

	respondSuccess(w, http.StatusOK, updated)
}
