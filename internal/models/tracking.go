// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryEntry is one entry in a tracking record's append-only
// status history. Position is the zero-based insertion order.
type StatusHistoryEntry struct {
	Status        Status    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
	Note          string    `json:"note,omitempty"`
	ModeratorNote string    `json:"moderator_note,omitempty"`
	Position      int       `json:"-"`
}

// ApplicationTracking lets a submitter follow the moderation progress of
// their submission without authenticating, via an opaque tracking code.
//
// The code is an 8-character uppercase base36 string, unique across all
// tracking records and immutable once issued. The status history only
// grows; after any moderation transition its last entry matches the
// submission's current status.
type ApplicationTracking struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`

	Email        string `json:"email"`
	TrackingCode string `json:"tracking_code"`

	StatusHistory []StatusHistoryEntry `json:"status_history"`
	LastUpdated   time.Time            `json:"last_updated"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackingView joins a tracking record with its submission for the
// unauthenticated lookup endpoints.
type TrackingView struct {
	Tracking   *ApplicationTracking `json:"tracking"`
	Submission *Submission          `json:"submission"`
}
