// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

// CastVote records a vote and recomputes the submission's aggregates in a
// single transaction.
//
// Deduplication strategy:
//   - Uses INSERT ... ON CONFLICT DO NOTHING (DuckDB-native syntax)
//   - Two unique constraints prevent duplicates: (submission_id, voter_ip)
//     and (submission_id, voter_email)
//   - Zero rows affected means a constraint fired, reported as ErrDuplicateVote
//
// The per-submission lock serializes the aggregate recompute. DuckDB aborts
// concurrent transactions that write the same submissions row, so without
// the lock one of two simultaneous voters would see a spurious failure.
func (db *DB) CastVote(ctx context.Context, vote *models.Vote) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	unlock := db.lockSubmission(vote.SubmissionID)
	defer unlock()

	sub, err := db.GetSubmission(ctx, vote.SubmissionID)
	if err != nil {
		return err
	}
	if sub.Status != models.StatusApproved && sub.Status != models.StatusActive {
		return ErrNotVotable
	}

	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	vote.Active = true
	vote.CreatedAt = time.Now().UTC()
	vote.VoterEmail = strings.ToLower(vote.VoterEmail)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logging.Error().
					Err(rollbackErr).
					AnErr("original_error", err).
					Msg("Failed to rollback vote transaction")
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `INSERT INTO votes (
		id, submission_id, voter_ip, voter_email, score, comment,
		community_benefit, problem_fit, feasibility, sustainability, appeal,
		active, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`,
		vote.ID, vote.SubmissionID, vote.VoterIP, nullString(vote.VoterEmail),
		vote.Score, nullString(vote.Comment),
		vote.Criteria.CommunityBenefit, vote.Criteria.ProblemFit, vote.Criteria.Feasibility,
		vote.Criteria.Sustainability, vote.Criteria.Appeal,
		vote.Active, vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	// With ON CONFLICT DO NOTHING, a duplicate insert returns zero
	// affected rows instead of an error.
	affected, raErr := result.RowsAffected()
	if raErr == nil && affected == 0 {
		logging.Debug().
			Str("submission_id", vote.SubmissionID.String()).
			Str("voter_ip", vote.VoterIP).
			Msg("Duplicate vote detected")
		err = ErrDuplicateVote
		return err
	}

	if err = db.recomputeAggregates(ctx, tx, vote.SubmissionID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote transaction: %w", err)
	}
	return nil
}

// DeactivateVote retracts a vote and recomputes the submission's aggregates.
func (db *DB) DeactivateVote(ctx context.Context, submissionID, voteID uuid.UUID) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	unlock := db.lockSubmission(submissionID)
	defer unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logging.Error().
					Err(rollbackErr).
					AnErr("original_error", err).
					Msg("Failed to rollback vote retraction")
			}
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE votes SET active = false WHERE id = ? AND submission_id = ? AND active = true`,
		voteID, submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate vote: %w", err)
	}

	affected, raErr := result.RowsAffected()
	if raErr == nil && affected == 0 {
		err = ErrNotFound
		return err
	}

	if err = db.recomputeAggregates(ctx, tx, submissionID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote retraction: %w", err)
	}
	return nil
}

// recomputeAggregates rewrites the submission's derived vote fields from
// the active rows of the vote ledger. Must run inside the caller's
// transaction while holding the submission lock.
func (db *DB) recomputeAggregates(ctx context.Context, tx *sql.Tx, submissionID uuid.UUID) error {
	var count, total int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(score), 0) FROM votes WHERE submission_id = ? AND active = true`,
		submissionID,
	).Scan(&count, &total)
	if err != nil {
		return fmt.Errorf("failed to aggregate votes: %w", err)
	}

	// Average rounded half-up to one decimal place.
	average := 0.0
	if count > 0 {
		average = math.Round(float64(total)/float64(count)*10) / 10
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE submissions SET vote_count = ?, vote_total = ?, vote_average = ?, updated_at = ? WHERE id = ?`,
		count, total, average, time.Now().UTC(), submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vote aggregates: %w", err)
	}

	return nil
}

// ListVotes returns the active votes for a submission, newest first.
func (db *DB) ListVotes(ctx context.Context, submissionID uuid.UUID) ([]*models.Vote, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT
		id, submission_id, voter_ip, voter_email, score, comment,
		community_benefit, problem_fit, feasibility, sustainability, appeal,
		active, created_at
		FROM votes WHERE submission_id = ? AND active = true
		ORDER BY created_at DESC`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer closeWithLog(rows, "vote rows")

	votes := []*models.Vote{}
	for rows.Next() {
		var (
			v          models.Vote
			voterEmail sql.NullString
			comment    sql.NullString
		)
		err := rows.Scan(
			&v.ID, &v.SubmissionID, &v.VoterIP, &voterEmail, &v.Score, &comment,
			&v.Criteria.CommunityBenefit, &v.Criteria.ProblemFit, &v.Criteria.Feasibility,
			&v.Criteria.Sustainability, &v.Criteria.Appeal,
			&v.Active, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.VoterEmail = voterEmail.String
		v.Comment = comment.String
		votes = append(votes, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}
