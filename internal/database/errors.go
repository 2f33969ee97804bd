// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"errors"
	"io"

	"github.com/ideabank/ideabank/internal/logging"
)

// Sentinel errors returned by the storage layer. Callers match them with
// errors.Is to choose the HTTP status and error code.
var (
	// ErrNotFound is returned when a submission, vote, or tracking
	// record does not exist or is inactive.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateVote is returned when a voter (by IP or email) has
	// already voted on the submission.
	ErrDuplicateVote = errors.New("duplicate vote")

	// ErrInvalidTransition is returned when a status change is not
	// permitted by the moderation lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotVotable is returned when the submission is not open for
	// public voting (only Approved and Active submissions are).
	ErrNotVotable = errors.New("submission not open for voting")
)

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
