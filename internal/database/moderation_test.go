// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/models"
)

func TestUpdateStatusHappyPath(t *testing.T) {
	db := setupTestDB(t)

	sub := createTestSubmission(t, db, "approve")

	updated, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusApproved, "Meets the bar")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("expected Approved, got %s", updated.Status)
	}

	got, err := db.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("expected persisted Approved, got %s", got.Status)
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	db := setupTestDB(t)

	sub := createTestSubmission(t, db, "invalid")

	// Pending cannot jump straight to Completed.
	_, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusCompleted, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	got, err := db.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("failed transition must not change status, got %s", got.Status)
	}
}

func TestUpdateStatusTerminal(t *testing.T) {
	db := setupTestDB(t)

	sub := createTestSubmission(t, db, "terminal")

	if _, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusRejected, "Out of scope"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	if _, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusApproved, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected rejected submission to stay rejected, got %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.UpdateStatus(context.Background(), uuid.New(), models.StatusApproved, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueryForModeration(t *testing.T) {
	db := setupTestDB(t)

	first := createTestSubmission(t, db, "mod1")
	second := createTestSubmission(t, db, "mod2")
	approveTestSubmission(t, db, second.ID)

	// Newest first.
	page, err := db.QueryForModeration(context.Background(), models.SubmissionFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("QueryForModeration failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 submissions, got %d", page.TotalCount)
	}
	if page.Items[0].ID != second.ID {
		t.Errorf("expected newest submission first, got %s", page.Items[0].ID)
	}

	// Soft-deleted submissions stay visible to moderators.
	if err := db.SoftDeleteSubmission(context.Background(), first.ID); err != nil {
		t.Fatalf("SoftDeleteSubmission failed: %v", err)
	}
	page, err = db.QueryForModeration(context.Background(), models.SubmissionFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("QueryForModeration after delete failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected inactive submission to remain visible, got %d", page.TotalCount)
	}

	pending, err := db.QueryForModeration(context.Background(),
		models.SubmissionFilter{Status: models.StatusPending}, 1, 10)
	if err != nil {
		t.Fatalf("QueryForModeration with status filter failed: %v", err)
	}
	if pending.TotalCount != 1 || pending.Items[0].ID != first.ID {
		t.Errorf("expected only the pending submission, got %d items", pending.TotalCount)
	}
}

func TestVotingList(t *testing.T) {
	db := setupTestDB(t)

	pending := createTestSubmission(t, db, "vl-pending")
	_ = pending

	approved := createTestSubmission(t, db, "vl-approved")
	approveTestSubmission(t, db, approved.ID)

	popular := createTestSubmission(t, db, "vl-popular")
	approveTestSubmission(t, db, popular.ID)
	if err := db.CastVote(context.Background(), newTestVote(popular, "10.1.0.1", 5)); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	page, err := db.VotingList(context.Background(), models.SortNewest, models.SubmissionFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("VotingList failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 votable submissions, got %d", page.TotalCount)
	}
	for _, item := range page.Items {
		if item.Status != models.StatusApproved && item.Status != models.StatusActive {
			t.Errorf("unexpected status %s in voting feed", item.Status)
		}
	}

	byPopularity, err := db.VotingList(context.Background(), models.SortPopular, models.SubmissionFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("VotingList popular failed: %v", err)
	}
	if byPopularity.Items[0].ID != popular.ID {
		t.Errorf("expected the voted submission first, got %s", byPopularity.Items[0].ID)
	}

	if _, err := db.VotingList(context.Background(), models.VotingSort("bogus"), models.SubmissionFilter{}, 1, 10); err == nil {
		t.Error("expected error for unknown sort order")
	}
}
