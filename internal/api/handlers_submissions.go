// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"net/http"
	"time"

	"github.com/ideabank/ideabank/internal/cache"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/metrics"
	"github.com/ideabank/ideabank/internal/models"
	"github.com/ideabank/ideabank/internal/validation"
)

// submissionCreatedResponse carries the new submission together with its
// tracking record. Tracking may be null when issuance failed; the
// submission itself is still created.
type submissionCreatedResponse struct {
	Submission *models.Submission          `json:"submission"`
	Tracking   *models.ApplicationTracking `json:"tracking,omitempty"`
}

// CreateSubmission handles POST /api/v1/submissions.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubmissionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// Both description fields are individually optional, but a submission
	// needs at least one of them.
	if req.Description == "" && req.ShortDescription == "" {
		apiErr := validation.NewRequestValidationError("description",
			"either description or short_description must be provided").ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// Maturity vocabulary depends on the kind; tags alone cannot express it.
	if !models.MaturityAllowedFor(req.Kind, req.MaturityLevel) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"maturity_level "+string(req.MaturityLevel)+" is not valid for kind "+string(req.Kind), nil)
		return
	}

	sub := &models.Submission{
		Kind:             req.Kind,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Problem:          req.Problem,
		TargetAudience:   req.TargetAudience,
		MaturityLevel:    req.MaturityLevel,
		Technologies:     req.Technologies,
		TeamMembers:      req.TeamMembers,
		Goals:            req.Goals,
		Budget:           req.Budget,
		Resources:        req.Resources,
		AttachmentURL:    req.AttachmentURL,
		SubmitterName:    req.SubmitterName,
		SubmitterEmail:   req.SubmitterEmail,
		SubmitterPhone:   req.SubmitterPhone,
	}

	// Dates were already validated as 2006-01-02 by the struct tags.
	if req.StartDate != "" {
		t, _ := time.Parse("2006-01-02", req.StartDate)
		sub.StartDate = &t
	}
	if req.EndDate != "" {
		t, _ := time.Parse("2006-01-02", req.EndDate)
		sub.EndDate = &t
	}
	if sub.StartDate != nil && sub.EndDate != nil && sub.EndDate.Before(*sub.StartDate) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not be before start_date", nil)
		return
	}

	trk, err := h.db.CreateSubmission(r.Context(), sub)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	h.cache.Delete(categoryStatsCacheKey)
	metrics.RecordSubmissionCreated(string(sub.Kind), string(sub.Category))
	logging.Ctx(r.Context()).Info().
		Str("submission_id", sub.ID.String()).
		Str("kind", string(sub.Kind)).
		Str("category", string(sub.Category)).
		Msg("Submission created")

	respondSuccess(w, http.StatusCreated, submissionCreatedResponse{
		Submission: sub,
		Tracking:   trk,
	})
}

// ListSubmissions handles GET /api/v1/submissions.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.getPagination(r)

	result, err := h.db.ListSubmissions(r.Context(), getSubmissionFilter(r), page, pageSize)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// GetSubmission handles GET /api/v1/submissions/{id}.
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	sub, err := h.db.GetSubmission(r.Context(), id)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, sub)
}

// UpdateSubmission handles PUT /api/v1/submissions/{id}.
// Status is deliberately not updatable here; transitions go through the
// moderation endpoint.
func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	var req models.UpdateSubmissionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// The maturity vocabulary depends on the stored kind.
	if req.MaturityLevel != "" {
		existing, err := h.db.GetSubmission(r.Context(), id)
		if err != nil {
			respondStorageError(w, err)
			return
		}
		if !models.MaturityAllowedFor(existing.Kind, req.MaturityLevel) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"maturity_level "+string(req.MaturityLevel)+" is not valid for kind "+string(existing.Kind), nil)
			return
		}
	}

	sub, err := h.db.UpdateSubmission(r.Context(), id, &req)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	h.cache.Delete(categoryStatsCacheKey)
	respondSuccess(w, http.StatusOK, sub)
}

// DeleteSubmission handles DELETE /api/v1/submissions/{id}.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id", nil)
		return
	}

	if err := h.db.SoftDeleteSubmission(r.Context(), id); err != nil {
		respondStorageError(w, err)
		return
	}

	h.cache.Delete(categoryStatsCacheKey)
	respondSuccess(w, http.StatusOK, map[string]string{"id": id.String(), "result": "deleted"})
}

// categoryStatsCacheKey caches the landing page aggregation briefly so
// list traffic does not hammer the aggregation query.
var categoryStatsCacheKey = cache.GenerateKey("stats", "categories")

// CategoryStats handles GET /api/v1/submissions/stats/categories.
// Degraded results still return 200 so the public landing page renders.
func (h *Handler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(categoryStatsCacheKey); ok {
		respondSuccess(w, http.StatusOK, cached)
		return
	}

	counts, degraded := h.db.CategoryStats(r.Context())

	payload := map[string]interface{}{
		"categories": counts,
		"degraded":   degraded,
	}
	if !degraded {
		h.cache.Set(categoryStatsCacheKey, payload)
	}

	respondSuccess(w, http.StatusOK, payload)
}

// VotingList handles GET /api/v1/voting: the public feed of submissions
// open for voting.
func (h *Handler) VotingList(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.getPagination(r)

	sort := models.VotingSort(r.URL.Query().Get("sort"))
	switch sort {
	case "", models.SortNewest, models.SortOldest, models.SortPopular, models.SortMostVoted:
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown sort order", nil)
		return
	}

	result, err := h.db.VotingList(r.Context(), sort, getSubmissionFilter(r), page, pageSize)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}
