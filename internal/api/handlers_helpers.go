// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/database"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
	"github.com/ideabank/ideabank/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// This includes newlines, carriage returns, tabs, and other control characters that could
// allow attackers to forge log entries or corrupt log files.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		// Replace control characters (0x00-0x1F and 0x7F) with a safe representation
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		// Sanitize error output to prevent log injection attacks
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondStorageError maps storage sentinels to HTTP status and error code.
func respondStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case errors.Is(err, database.ErrDuplicateVote):
		respondError(w, http.StatusConflict, "DUPLICATE_VOTE", "a vote for this submission already exists from this voter", nil)
	case errors.Is(err, database.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	case errors.Is(err, database.ErrNotVotable):
		respondError(w, http.StatusConflict, "NOT_VOTABLE", "submission is not open for voting", nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}

// decodeJSONBody decodes a request body, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getPagination extracts page and page_size with configured bounds.
func (h *Handler) getPagination(r *http.Request) (page, pageSize int) {
	page = getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}

	pageSize = getIntParam(r, "page_size", h.cfg.API.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.API.DefaultPageSize
	}
	if pageSize > h.cfg.API.MaxPageSize {
		pageSize = h.cfg.API.MaxPageSize
	}

	return page, pageSize
}

// getSubmissionFilter extracts the common listing filter parameters.
func getSubmissionFilter(r *http.Request) models.SubmissionFilter {
	q := r.URL.Query()
	return models.SubmissionFilter{
		Kind:     models.SubmissionKind(q.Get("kind")),
		Category: models.Category(q.Get("category")),
		Status:   models.Status(q.Get("status")),
		Search:   q.Get("search"),
	}
}

// getUUIDParam parses a UUID path parameter.
func getUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := r.PathValue(key)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing %s parameter", key)
	}
	return uuid.Parse(raw)
}

// clientIP returns the voter's IP. The RealIP middleware has already
// resolved X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
