// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/models"
	"github.com/ideabank/ideabank/internal/tracking"
)

// maxCodeAttempts bounds the tracking code collision retry loop.
// At 36^8 possible codes the second attempt is already vanishingly rare.
const maxCodeAttempts = 5

// issueTracking creates the tracking record for a new submission, with a
// freshly generated unique code and a Pending history entry.
func (db *DB) issueTracking(ctx context.Context, submissionID uuid.UUID, email string) (*models.ApplicationTracking, error) {
	now := time.Now().UTC()

	trk := &models.ApplicationTracking{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Email:        strings.ToLower(email),
		LastUpdated:  now,
		Active:       true,
		CreatedAt:    now,
	}

	// ON CONFLICT DO NOTHING turns a code collision into zero affected
	// rows; regenerate and retry instead of failing the submission.
	inserted := false
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := tracking.GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate tracking code: %w", err)
		}
		trk.TrackingCode = code

		result, err := db.conn.ExecContext(ctx, `INSERT INTO application_trackings (
			id, submission_id, email, tracking_code, last_updated, active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
			trk.ID, trk.SubmissionID, trk.Email, trk.TrackingCode, trk.LastUpdated, trk.Active, trk.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert tracking record: %w", err)
		}

		if affected, raErr := result.RowsAffected(); raErr != nil || affected > 0 {
			inserted = true
			break
		}
	}
	if !inserted {
		return nil, fmt.Errorf("failed to find a free tracking code after %d attempts", maxCodeAttempts)
	}

	entry := models.StatusHistoryEntry{
		Status:     models.StatusPending,
		OccurredAt: now,
		Note:       "Submission received",
		Position:   0,
	}
	if _, err := db.conn.ExecContext(ctx, `INSERT INTO status_history (
		tracking_id, position, status, occurred_at, note, moderator_note
	) VALUES (?, ?, ?, ?, ?, ?)`,
		trk.ID, entry.Position, entry.Status, entry.OccurredAt, nullString(entry.Note), nil,
	); err != nil {
		return nil, fmt.Errorf("failed to insert initial status history: %w", err)
	}

	trk.StatusHistory = []models.StatusHistoryEntry{entry}
	return trk, nil
}

// appendTrackingStatus appends a history entry to the submission's tracking
// record after a moderation transition and bumps last_updated.
func (db *DB) appendTrackingStatus(ctx context.Context, submissionID uuid.UUID, status models.Status, moderatorNote string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var trackingID uuid.UUID
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM application_trackings WHERE submission_id = ? AND active = true`,
		submissionID,
	).Scan(&trackingID)
	if err == sql.ErrNoRows {
		// Tracking issuance is best effort, so a submission without a
		// tracking record is possible.
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find tracking record: %w", err)
	}

	now := time.Now().UTC()

	// Positions are dense and append-only; MAX+1 is safe because
	// transitions are serialized by the submission lock.
	var nextPosition int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM status_history WHERE tracking_id = ?`,
		trackingID,
	).Scan(&nextPosition)
	if err != nil {
		return fmt.Errorf("failed to determine history position: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, `INSERT INTO status_history (
		tracking_id, position, status, occurred_at, note, moderator_note
	) VALUES (?, ?, ?, ?, ?, ?)`,
		trackingID, nextPosition, status, now, "status changed to "+string(status), nullString(moderatorNote),
	); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx,
		`UPDATE application_trackings SET last_updated = ? WHERE id = ?`,
		now, trackingID,
	); err != nil {
		return fmt.Errorf("failed to update tracking timestamp: %w", err)
	}

	return nil
}

// GetTrackingByCode returns the tracking record and its submission for an
// 8-character tracking code. The caller should uppercase user input first.
func (db *DB) GetTrackingByCode(ctx context.Context, code string) (*models.TrackingView, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	trk, err := db.scanTracking(db.conn.QueryRowContext(ctx,
		`SELECT id, submission_id, email, tracking_code, last_updated, active, created_at
		FROM application_trackings WHERE tracking_code = ? AND active = true`,
		code,
	))
	if err != nil {
		return nil, err
	}

	return db.buildTrackingView(ctx, trk)
}

// GetTrackingsByEmail returns all active tracking records for a submitter
// email, most recently updated first, each joined with its submission.
func (db *DB) GetTrackingsByEmail(ctx context.Context, email string) ([]*models.TrackingView, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, submission_id, email, tracking_code, last_updated, active, created_at
		FROM application_trackings WHERE email = ? AND active = true
		ORDER BY last_updated DESC`,
		strings.ToLower(email),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking records: %w", err)
	}
	defer closeWithLog(rows, "tracking rows")

	trackings := []*models.ApplicationTracking{}
	for rows.Next() {
		trk, err := db.scanTracking(rows)
		if err != nil {
			return nil, err
		}
		trackings = append(trackings, trk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracking records: %w", err)
	}

	views := make([]*models.TrackingView, 0, len(trackings))
	for _, trk := range trackings {
		view, err := db.buildTrackingView(ctx, trk)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// scanTracking scans one application_trackings row.
func (db *DB) scanTracking(row rowScanner) (*models.ApplicationTracking, error) {
	var trk models.ApplicationTracking
	err := row.Scan(
		&trk.ID, &trk.SubmissionID, &trk.Email, &trk.TrackingCode,
		&trk.LastUpdated, &trk.Active, &trk.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tracking record: %w", err)
	}
	return &trk, nil
}

// buildTrackingView loads the status history and submission for a tracking
// record.
func (db *DB) buildTrackingView(ctx context.Context, trk *models.ApplicationTracking) (*models.TrackingView, error) {
	history, err := db.loadStatusHistory(ctx, trk.ID)
	if err != nil {
		return nil, err
	}
	trk.StatusHistory = history

	sub, err := db.GetSubmission(ctx, trk.SubmissionID)
	if err != nil {
		return nil, err
	}

	return &models.TrackingView{Tracking: trk, Submission: sub}, nil
}

// loadStatusHistory returns a tracking record's history in insertion order.
func (db *DB) loadStatusHistory(ctx context.Context, trackingID uuid.UUID) ([]models.StatusHistoryEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT position, status, occurred_at, note, moderator_note
		FROM status_history WHERE tracking_id = ?
		ORDER BY position ASC`,
		trackingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer closeWithLog(rows, "status history rows")

	history := []models.StatusHistoryEntry{}
	for rows.Next() {
		var (
			entry         models.StatusHistoryEntry
			note          sql.NullString
			moderatorNote sql.NullString
		)
		if err := rows.Scan(&entry.Position, &entry.Status, &entry.OccurredAt, &note, &moderatorNote); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entry.Note = note.String
		entry.ModeratorNote = moderatorNote.String
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return history, nil
}
