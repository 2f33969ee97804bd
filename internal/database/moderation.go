// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/lifecycle"
	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

// QueryForModeration returns a page of submissions for the moderation
// queue, newest first. Unlike the public listing it covers inactive and
// unapproved submissions; the filter works as in ListSubmissions and
// moderators will usually constrain by status.
func (db *DB) QueryForModeration(ctx context.Context, filter models.SubmissionFilter, page, pageSize int) (*models.SubmissionPage, error) {
	return db.listSubmissions(ctx, filter, page, pageSize, true, "created_at DESC")
}

// UpdateStatus applies a moderation transition to a submission.
//
// The transition must be allowed by the lifecycle graph; anything else
// returns ErrInvalidTransition. On success the tracking history is
// extended best-effort: a tracking failure is logged, not returned, since
// the status change itself already happened.
func (db *DB) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus models.Status, moderatorNote string) (*models.Submission, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	unlock := db.lockSubmission(id)
	defer unlock()

	sub, err := db.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(sub.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, sub.Status, newStatus)
	}

	now := time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE submissions SET status = ?, updated_at = ? WHERE id = ? AND active = true`,
		newStatus, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
		return nil, ErrNotFound
	}

	logging.Info().
		Str("submission_id", id.String()).
		Str("from", string(sub.Status)).
		Str("to", string(newStatus)).
		Msg("Submission status changed")

	if err := db.appendTrackingStatus(ctx, id, newStatus, moderatorNote); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Tracking issuance is best effort at creation time, so
			// some submissions legitimately have no tracking record.
			logging.Debug().
				Str("submission_id", id.String()).
				Msg("No tracking record to extend")
		} else {
			logging.Warn().
				Str("submission_id", id.String()).
				Err(err).
				Msg("Failed to extend tracking history")
		}
	}

	sub.Status = newStatus
	sub.UpdatedAt = now
	return sub, nil
}
