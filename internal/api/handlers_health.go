// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive handles GET /api/v1/health/live. It answers as long as the
// process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness requires a
// responsive database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database not reachable", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Health handles GET /api/v1/health with a summary including record counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database not reachable", err)
		return
	}

	payload := map[string]interface{}{
		"status":         "healthy",
		"cache_hit_rate": h.cache.HitRate(),
	}
	if submissions, votes, err := h.db.GetRecordCounts(ctx); err == nil {
		// Ping already succeeded, so a count failure only drops the detail.
		payload["records"] = map[string]int64{
			"submissions": submissions,
			"votes":       votes,
		}
	}

	respondSuccess(w, http.StatusOK, payload)
}
