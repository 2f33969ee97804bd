// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"errors"
	"net/http"

	"github.com/ideabank/ideabank/internal/database"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/metrics"
	"github.com/ideabank/ideabank/internal/models"
)

// CastVote handles POST /api/v1/submissions/{id}/votes.
// The voter IP comes from the connection, never the payload.
func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	var req models.CastVoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	vote := &models.Vote{
		SubmissionID: id,
		VoterIP:      clientIP(r),
		VoterEmail:   req.VoterEmail,
		Score:        req.Score,
		Comment:      req.Comment,
		Criteria:     *req.Criteria,
	}

	if err := h.db.CastVote(r.Context(), vote); err != nil {
		if errors.Is(err, database.ErrDuplicateVote) {
			metrics.RecordDuplicateVote()
		}
		respondStorageError(w, err)
		return
	}

	metrics.RecordVoteCast()
	logging.Ctx(r.Context()).Info().
		Str("submission_id", id.String()).
		Int("score", vote.Score).
		Msg("Vote recorded")

	respondSuccess(w, http.StatusCreated, vote)
}

// ListVotes handles GET /api/v1/submissions/{id}/votes.
func (h *Handler) ListVotes(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	// 404 for unknown submissions rather than an empty list.
	if _, err := h.db.GetSubmission(r.Context(), id); err != nil {
		respondStorageError(w, err)
		return
	}

	votes, err := h.db.ListVotes(r.Context(), id)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, votes)
}

// RetractVote handles DELETE /api/v1/moderation/submissions/{id}/votes/{voteID}.
// Moderator-only: retracts an abusive vote and recomputes the aggregates.
func (h *Handler) RetractVote(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	voteID, err := getUUIDParam(r, "voteID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid vote id", nil)
		return
	}

	if err := h.db.DeactivateVote(r.Context(), id, voteID); err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"id": voteID.String(), "result": "retracted"})
}
