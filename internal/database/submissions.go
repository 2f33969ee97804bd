// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

// submissionColumns is the canonical column list shared by every
// submission SELECT. Keep in sync with scanSubmission.
const submissionColumns = `id, kind, title, description, short_description, category, problem,
	target_audience, maturity_level, status, priority, technologies, team_members, goals,
	budget, start_date, end_date, resources, attachment_url,
	submitter_name, submitter_email, submitter_phone,
	vote_count, vote_total, vote_average, active, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows for scanSubmission.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSubmission scans one row of submissionColumns into a model.
func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		s                uuid.UUID
		sub              models.Submission
		description      sql.NullString
		shortDescription sql.NullString
		technologies     sql.NullString
		teamMembers      sql.NullString
		goals            sql.NullString
		startDate        sql.NullTime
		endDate          sql.NullTime
		resources        sql.NullString
		attachmentURL    sql.NullString
		submitterPhone   sql.NullString
	)

	err := row.Scan(
		&s, &sub.Kind, &sub.Title, &description, &shortDescription, &sub.Category, &sub.Problem,
		&sub.TargetAudience, &sub.MaturityLevel, &sub.Status, &sub.Priority, &technologies, &teamMembers, &goals,
		&sub.Budget, &startDate, &endDate, &resources, &attachmentURL,
		&sub.SubmitterName, &sub.SubmitterEmail, &submitterPhone,
		&sub.VoteCount, &sub.VoteTotal, &sub.VoteAverage, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.ID = s
	sub.Description = description.String
	sub.ShortDescription = shortDescription.String
	sub.Technologies = technologies.String
	sub.TeamMembers = teamMembers.String
	sub.Goals = goals.String
	sub.Resources = resources.String
	sub.AttachmentURL = attachmentURL.String
	sub.SubmitterPhone = submitterPhone.String
	if startDate.Valid {
		t := startDate.Time
		sub.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		sub.EndDate = &t
	}

	return &sub, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullTime maps a nil time pointer to SQL NULL.
func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// CreateSubmission inserts a new submission and issues its tracking record.
//
// The submission always starts Pending with Medium priority and zeroed vote
// aggregates, regardless of what the caller set. Tracking issuance is best
// effort: a failure there is logged and the submission creation still
// succeeds, so the returned tracking may be nil.
func (db *DB) CreateSubmission(ctx context.Context, sub *models.Submission) (*models.ApplicationTracking, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	now := time.Now().UTC()
	sub.Status = models.StatusPending
	if sub.Priority == "" {
		sub.Priority = models.PriorityMedium
	}
	sub.VoteCount = 0
	sub.VoteTotal = 0
	sub.VoteAverage = 0
	sub.Active = true
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.SubmitterEmail = strings.ToLower(sub.SubmitterEmail)

	query := `INSERT INTO submissions (` + submissionColumns + `) VALUES (
		?, ?, ?, ?, ?, ?, ?,
		?, ?, ?, ?, ?, ?, ?,
		?, ?, ?, ?, ?,
		?, ?, ?,
		?, ?, ?, ?, ?, ?
	)`

	_, err := db.conn.ExecContext(ctx, query,
		sub.ID, sub.Kind, sub.Title, nullString(sub.Description), nullString(sub.ShortDescription), sub.Category, sub.Problem,
		sub.TargetAudience, sub.MaturityLevel, sub.Status, sub.Priority, nullString(sub.Technologies), nullString(sub.TeamMembers), nullString(sub.Goals),
		sub.Budget, nullTime(sub.StartDate), nullTime(sub.EndDate), nullString(sub.Resources), nullString(sub.AttachmentURL),
		sub.SubmitterName, sub.SubmitterEmail, nullString(sub.SubmitterPhone),
		sub.VoteCount, sub.VoteTotal, sub.VoteAverage, sub.Active, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}

	tracking, err := db.issueTracking(ctx, sub.ID, sub.SubmitterEmail)
	if err != nil {
		logging.Warn().
			Str("submission_id", sub.ID.String()).
			Err(err).
			Msg("Failed to issue tracking record")
		return nil, nil
	}

	return tracking, nil
}

// GetSubmission returns an active submission by ID.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ? AND active = true`

	sub, err := scanSubmission(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// buildSubmissionFilter translates a filter into a WHERE fragment and args.
// The fragment always constrains to active rows unless includeInactive.
func buildSubmissionFilter(filter models.SubmissionFilter, includeInactive bool) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if !includeInactive {
		clauses = append(clauses, "active = true")
	}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		clauses = append(clauses, "(lower(title) LIKE ? OR lower(description) LIKE ? OR lower(short_description) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListSubmissions returns a page of active submissions, newest first.
func (db *DB) ListSubmissions(ctx context.Context, filter models.SubmissionFilter, page, pageSize int) (*models.SubmissionPage, error) {
	return db.listSubmissions(ctx, filter, page, pageSize, false, "created_at DESC")
}

// listSubmissions is the shared pagination core for public listing,
// moderation listing, and the voting feed.
func (db *DB) listSubmissions(ctx context.Context, filter models.SubmissionFilter, page, pageSize int, includeInactive bool, orderBy string) (*models.SubmissionPage, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	where, args := buildSubmissionFilter(filter, includeInactive)

	var total int
	countQuery := "SELECT COUNT(*) FROM submissions" + where
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer closeWithLog(rows, "submission rows")

	items := []*models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		items = append(items, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &models.SubmissionPage{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// UpdateSubmission applies the non-empty fields of the request to an
// active submission. Status, vote aggregates, and the active flag are
// never touched here.
func (db *DB) UpdateSubmission(ctx context.Context, id uuid.UUID, req *models.UpdateSubmissionRequest) (*models.Submission, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	unlock := db.lockSubmission(id)
	defer unlock()

	sub, err := db.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(sub, req)
	sub.UpdatedAt = time.Now().UTC()

	query := `UPDATE submissions SET
		title = ?, description = ?, short_description = ?, category = ?, problem = ?,
		target_audience = ?, maturity_level = ?, priority = ?,
		technologies = ?, team_members = ?, goals = ?, budget = ?,
		resources = ?, attachment_url = ?, updated_at = ?
		WHERE id = ? AND active = true`

	result, err := db.conn.ExecContext(ctx, query,
		sub.Title, nullString(sub.Description), nullString(sub.ShortDescription), sub.Category, sub.Problem,
		sub.TargetAudience, sub.MaturityLevel, sub.Priority,
		nullString(sub.Technologies), nullString(sub.TeamMembers), nullString(sub.Goals), sub.Budget,
		nullString(sub.Resources), nullString(sub.AttachmentURL), sub.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}

	return sub, nil
}

// applyUpdate copies the non-empty request fields onto the submission.
func applyUpdate(sub *models.Submission, req *models.UpdateSubmissionRequest) {
	if req.Title != "" {
		sub.Title = req.Title
	}
	if req.Description != "" {
		sub.Description = req.Description
	}
	if req.ShortDescription != "" {
		sub.ShortDescription = req.ShortDescription
	}
	if req.Category != "" {
		sub.Category = req.Category
	}
	if req.Problem != "" {
		sub.Problem = req.Problem
	}
	if req.TargetAudience != "" {
		sub.TargetAudience = req.TargetAudience
	}
	if req.MaturityLevel != "" {
		sub.MaturityLevel = req.MaturityLevel
	}
	if req.Priority != "" {
		sub.Priority = req.Priority
	}
	if req.Technologies != "" {
		sub.Technologies = req.Technologies
	}
	if req.TeamMembers != "" {
		sub.TeamMembers = req.TeamMembers
	}
	if req.Goals != "" {
		sub.Goals = req.Goals
	}
	if req.Budget != 0 {
		sub.Budget = req.Budget
	}
	if req.Resources != "" {
		sub.Resources = req.Resources
	}
	if req.AttachmentURL != "" {
		sub.AttachmentURL = req.AttachmentURL
	}
}

// SoftDeleteSubmission marks a submission inactive. Its votes and tracking
// records are retired with it; nothing is physically removed.
func (db *DB) SoftDeleteSubmission(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	unlock := db.lockSubmission(id)
	defer unlock()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE submissions SET active = false, updated_at = ? WHERE id = ? AND active = true`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}

	// Retire the tracking record as well. Best effort: the submission
	// is already gone from public view either way.
	if _, err := db.conn.ExecContext(ctx,
		`UPDATE application_trackings SET active = false WHERE submission_id = ?`, id,
	); err != nil {
		logging.Warn().
			Str("submission_id", id.String()).
			Err(err).
			Msg("Failed to retire tracking record")
	}

	return nil
}
