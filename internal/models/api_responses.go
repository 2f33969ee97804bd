// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "DUPLICATE_VOTE",
//	    "message": "a vote for this submission already exists from this voter"
//	  },
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: server time when the response was generated (RFC3339)
//   - QueryTimeMS: database query execution time in milliseconds
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a structured error payload.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input
//   - NOT_FOUND: resource doesn't exist
//   - DUPLICATE_VOTE: the voter already voted on this submission
//   - INVALID_TRANSITION: the requested status change is not allowed
//   - AUTHENTICATION_ERROR: invalid or missing credentials
//   - SERVICE_UNAVAILABLE: the database did not respond in time
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LoginRequest is the moderator login payload.
// The password is transmitted in plaintext; deploy behind HTTPS.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns a signed JWT for subsequent moderator requests.
// Send it as "Authorization: Bearer <token>".
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// StatusUpdateRequest is the moderation transition payload.
type StatusUpdateRequest struct {
	Status        Status `json:"status" validate:"required,oneof=Pending Approved Rejected RevisionRequested Active Completed"`
	ModeratorNote string `json:"moderator_note" validate:"omitempty,max=1000"`
}
