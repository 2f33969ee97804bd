// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/ideabank/ideabank/internal/logging"
	"github.com/ideabank/ideabank/internal/models"
)

// allCategories is the display order for category statistics.
var allCategories = []models.Category{
	models.CategoryTechnology,
	models.CategoryHealth,
	models.CategoryEducation,
	models.CategoryEnvironment,
	models.CategorySocial,
	models.CategoryEconomy,
	models.CategoryCulture,
	models.CategoryOther,
}

// CategoryStats returns the active submission count per category, always
// covering every category even when it has no submissions. Results are
// sorted by count descending.
//
// The endpoint backs a public landing page, so a failing grouped
// aggregation degrades to a per-category counting loop with degraded=true
// rather than erroring out.
func (db *DB) CategoryStats(ctx context.Context) (counts []models.CategoryCount, degraded bool) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	byCategory, err := db.groupedCategoryCounts(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Grouped category stats failed, falling back to per-category counts")
		byCategory = db.perCategoryCounts(ctx)
		degraded = true
	}

	counts = make([]models.CategoryCount, 0, len(allCategories))
	for _, category := range allCategories {
		counts = append(counts, models.CategoryCount{
			Category: category,
			Count:    byCategory[category],
		})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts, degraded
}

func (db *DB) groupedCategoryCounts(ctx context.Context) (map[models.Category]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM submissions WHERE active = true GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer closeWithLog(rows, "category stat rows")

	byCategory := make(map[models.Category]int, len(allCategories))
	for rows.Next() {
		var (
			category models.Category
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		byCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category stats: %w", err)
	}
	return byCategory, nil
}

// perCategoryCounts counts each category individually. A category whose
// count query also fails reports zero instead of aborting the page.
func (db *DB) perCategoryCounts(ctx context.Context) map[models.Category]int {
	byCategory := make(map[models.Category]int, len(allCategories))
	for _, category := range allCategories {
		var count int
		err := db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM submissions WHERE active = true AND category = ?`,
			string(category),
		).Scan(&count)
		if err != nil {
			logging.Warn().Err(err).Str("category", string(category)).Msg("Per-category count failed")
			count = 0
		}
		byCategory[category] = count
	}
	return byCategory
}

// VotingList returns the public voting feed: active submissions that are
// open for voting (Approved or Active), sorted per the requested order.
func (db *DB) VotingList(ctx context.Context, sort models.VotingSort, filter models.SubmissionFilter, page, pageSize int) (*models.SubmissionPage, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	orderBy, err := votingOrder(sort)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	// Reuse the filter builder for kind/category/search, then constrain
	// to the votable statuses.
	filter.Status = ""
	where, args := buildSubmissionFilter(filter, false)
	if where == "" {
		where = " WHERE status IN ('Approved', 'Active')"
	} else {
		where += " AND status IN ('Approved', 'Active')"
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count voting submissions: %w", err)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query voting submissions: %w", err)
	}
	defer closeWithLog(rows, "voting rows")

	items := []*models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voting submission: %w", err)
		}
		items = append(items, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voting submissions: %w", err)
	}

	return &models.SubmissionPage{
		Items:       items,
		TotalCount:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
	}, nil
}

// votingOrder maps a sort mode to an ORDER BY clause. The clauses are
// fixed strings, never user input.
func votingOrder(sort models.VotingSort) (string, error) {
	switch sort {
	case models.SortNewest, "":
		return "created_at DESC", nil
	case models.SortOldest:
		return "created_at ASC", nil
	case models.SortPopular:
		return "vote_average DESC, vote_count DESC, created_at DESC", nil
	case models.SortMostVoted:
		return "vote_count DESC, vote_average DESC, created_at DESC", nil
	default:
		return "", fmt.Errorf("unknown sort order %q", sort)
	}
}
