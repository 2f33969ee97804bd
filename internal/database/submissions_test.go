// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/models"
)

func TestCreateSubmissionDefaults(t *testing.T) {
	db := setupTestDB(t)

	sub := newTestSubmission("defaults")
	sub.Status = models.StatusActive // must be overridden
	sub.VoteCount = 42               // must be zeroed

	trk, err := db.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	if sub.ID == uuid.Nil {
		t.Error("expected a generated ID")
	}
	if sub.Status != models.StatusPending {
		t.Errorf("expected status Pending, got %s", sub.Status)
	}
	if sub.Priority != models.PriorityMedium {
		t.Errorf("expected default priority Medium, got %s", sub.Priority)
	}
	if sub.VoteCount != 0 || sub.VoteTotal != 0 || sub.VoteAverage != 0 {
		t.Errorf("expected zeroed vote aggregates, got %d/%d/%f", sub.VoteCount, sub.VoteTotal, sub.VoteAverage)
	}
	if !sub.Active {
		t.Error("expected submission to be active")
	}

	if trk == nil {
		t.Fatal("expected a tracking record")
	}
	if len(trk.TrackingCode) != 8 {
		t.Errorf("expected 8-character tracking code, got %q", trk.TrackingCode)
	}
	if len(trk.StatusHistory) != 1 || trk.StatusHistory[0].Status != models.StatusPending {
		t.Errorf("expected one Pending history entry, got %+v", trk.StatusHistory)
	}
}

func TestGetSubmission(t *testing.T) {
	db := setupTestDB(t)

	created := createTestSubmission(t, db, "get")

	got, err := db.GetSubmission(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Title != created.Title {
		t.Errorf("expected title %q, got %q", created.Title, got.Title)
	}
	if got.SubmitterEmail != created.SubmitterEmail {
		t.Errorf("expected email %q, got %q", created.SubmitterEmail, got.SubmitterEmail)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetSubmission(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSubmissionProjectFields(t *testing.T) {
	db := setupTestDB(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubmission("project")
	sub.Kind = models.KindProject
	sub.MaturityLevel = models.MaturityPrototype
	sub.Technologies = "Go, DuckDB"
	sub.TeamMembers = "Ada, Grace"
	sub.Goals = "Pilot in two districts"
	sub.Budget = 15000
	sub.StartDate = &start
	sub.EndDate = &end

	if _, err := db.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	got, err := db.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Kind != models.KindProject {
		t.Errorf("expected kind project, got %s", got.Kind)
	}
	if got.Budget != 15000 {
		t.Errorf("expected budget 15000, got %f", got.Budget)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("expected start date %v, got %v", start, got.StartDate)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("expected end date %v, got %v", end, got.EndDate)
	}
}

func TestListSubmissionsPagination(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		createTestSubmission(t, db, string(rune('a'+i)))
	}

	page, err := db.ListSubmissions(context.Background(), models.SubmissionFilter{}, 1, 2)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}

	if page.TotalCount != 5 {
		t.Errorf("expected total 5, got %d", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Errorf("expected current page 1, got %d", page.CurrentPage)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(page.Items))
	}

	last, err := db.ListSubmissions(context.Background(), models.SubmissionFilter{}, 3, 2)
	if err != nil {
		t.Fatalf("ListSubmissions page 3 failed: %v", err)
	}
	if len(last.Items) != 1 {
		t.Errorf("expected 1 item on last page, got %d", len(last.Items))
	}
}

func TestListSubmissionsFilter(t *testing.T) {
	db := setupTestDB(t)

	createTestSubmission(t, db, "env")

	tech := newTestSubmission("tech")
	tech.Category = models.CategoryTechnology
	tech.Title = "Open sensor network"
	if _, err := db.CreateSubmission(context.Background(), tech); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	page, err := db.ListSubmissions(context.Background(),
		models.SubmissionFilter{Category: models.CategoryTechnology}, 1, 10)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected 1 technology submission, got %d", page.TotalCount)
	}
	if page.Items[0].ID != tech.ID {
		t.Errorf("expected the technology submission, got %s", page.Items[0].ID)
	}

	search, err := db.ListSubmissions(context.Background(),
		models.SubmissionFilter{Search: "SENSOR"}, 1, 10)
	if err != nil {
		t.Fatalf("ListSubmissions search failed: %v", err)
	}
	if search.TotalCount != 1 {
		t.Errorf("expected case-insensitive search to find 1 submission, got %d", search.TotalCount)
	}
}

func TestUpdateSubmission(t *testing.T) {
	db := setupTestDB(t)

	sub := createTestSubmission(t, db, "update")

	updated, err := db.UpdateSubmission(context.Background(), sub.ID, &models.UpdateSubmissionRequest{
		Title:    "Compost hubs v2",
		Priority: models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("UpdateSubmission failed: %v", err)
	}

	if updated.Title != "Compost hubs v2" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Priority != models.PriorityHigh {
		t.Errorf("expected priority High, got %s", updated.Priority)
	}
	// Untouched fields survive a partial update.
	if updated.Problem != sub.Problem {
		t.Errorf("expected problem unchanged, got %q", updated.Problem)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("update must not change status, got %s", updated.Status)
	}
}

func TestUpdateSubmissionNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.UpdateSubmission(context.Background(), uuid.New(), &models.UpdateSubmissionRequest{Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteSubmission(t *testing.T) {
	db := setupTestDB(t)

	sub := createTestSubmission(t, db, "delete")

	if err := db.SoftDeleteSubmission(context.Background(), sub.ID); err != nil {
		t.Fatalf("SoftDeleteSubmission failed: %v", err)
	}

	if _, err := db.GetSubmission(context.Background(), sub.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted submission to be invisible, got %v", err)
	}

	// Row is retired, not removed.
	var count int
	err := db.conn.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM submissions WHERE id = ?", sub.ID).Scan(&count)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected soft-deleted row to remain, got %d rows", count)
	}

	if err := db.SoftDeleteSubmission(context.Background(), sub.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected second delete to report ErrNotFound, got %v", err)
	}
}

func TestCategoryStats(t *testing.T) {
	db := setupTestDB(t)

	createTestSubmission(t, db, "stats1")
	createTestSubmission(t, db, "stats2")

	counts, degraded := db.CategoryStats(context.Background())
	if degraded {
		t.Fatal("expected a healthy stats result")
	}
	if len(counts) != 8 {
		t.Fatalf("expected all 8 categories, got %d", len(counts))
	}
	if counts[0].Category != models.CategoryEnvironment {
		t.Errorf("expected the busiest category first, got %s", counts[0].Category)
	}

	byCategory := make(map[models.Category]int)
	for _, c := range counts {
		byCategory[c.Category] = c.Count
	}
	if byCategory[models.CategoryEnvironment] != 2 {
		t.Errorf("expected 2 environment submissions, got %d", byCategory[models.CategoryEnvironment])
	}
	if byCategory[models.CategoryHealth] != 0 {
		t.Errorf("expected empty category to report zero, got %d", byCategory[models.CategoryHealth])
	}
}
