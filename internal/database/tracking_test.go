// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/ideabank/ideabank/internal/models"
)

func TestTrackingByCode(t *testing.T) {
	db := setupTestDB(t)

	sub := newTestSubmission("track-code")
	trk, err := db.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}
	if trk == nil {
		t.Fatal("expected a tracking record")
	}

	view, err := db.GetTrackingByCode(context.Background(), trk.TrackingCode)
	if err != nil {
		t.Fatalf("GetTrackingByCode failed: %v", err)
	}

	if view.Tracking.SubmissionID != sub.ID {
		t.Errorf("expected tracking for %s, got %s", sub.ID, view.Tracking.SubmissionID)
	}
	if view.Submission.Title != sub.Title {
		t.Errorf("expected joined submission, got %q", view.Submission.Title)
	}
	if len(view.Tracking.StatusHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(view.Tracking.StatusHistory))
	}
	if view.Tracking.StatusHistory[0].Status != models.StatusPending {
		t.Errorf("expected Pending history entry, got %s", view.Tracking.StatusHistory[0].Status)
	}
}

func TestTrackingByCodeNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetTrackingByCode(context.Background(), "NOPE1234"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTrackingsByEmail(t *testing.T) {
	db := setupTestDB(t)

	first := newTestSubmission("mail1")
	first.SubmitterEmail = "Tracker@Example.com" // stored lowercased
	if _, err := db.CreateSubmission(context.Background(), first); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	second := newTestSubmission("mail2")
	second.SubmitterEmail = "tracker@example.com"
	if _, err := db.CreateSubmission(context.Background(), second); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	createTestSubmission(t, db, "other-mail")

	views, err := db.GetTrackingsByEmail(context.Background(), "TRACKER@example.com")
	if err != nil {
		t.Fatalf("GetTrackingsByEmail failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 tracking records, got %d", len(views))
	}

	views, err = db.GetTrackingsByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("GetTrackingsByEmail for unknown email failed: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected no tracking records, got %d", len(views))
	}
}

func TestTrackingHistoryGrowsWithTransitions(t *testing.T) {
	db := setupTestDB(t)

	sub := newTestSubmission("track-history")
	trk, err := db.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	if _, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusApproved, "Looks good"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if _, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusActive, ""); err != nil {
		t.Fatalf("UpdateStatus to Active failed: %v", err)
	}

	view, err := db.GetTrackingByCode(context.Background(), trk.TrackingCode)
	if err != nil {
		t.Fatalf("GetTrackingByCode failed: %v", err)
	}

	history := view.Tracking.StatusHistory
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(history))
	}

	expected := []models.Status{models.StatusPending, models.StatusApproved, models.StatusActive}
	for i, status := range expected {
		if history[i].Status != status {
			t.Errorf("entry %d: expected %s, got %s", i, status, history[i].Status)
		}
		if history[i].Position != i {
			t.Errorf("entry %d: expected position %d, got %d", i, i, history[i].Position)
		}
	}
	if history[1].ModeratorNote != "Looks good" {
		t.Errorf("expected moderator note preserved, got %q", history[1].ModeratorNote)
	}
	if history[1].Note != "status changed to Approved" {
		t.Errorf("expected transition note, got %q", history[1].Note)
	}
	if history[2].Note != "status changed to Active" {
		t.Errorf("expected transition note, got %q", history[2].Note)
	}

	if view.Tracking.LastUpdated.Before(view.Tracking.CreatedAt) {
		t.Error("expected last_updated to advance with transitions")
	}
}

func TestTrackingRetiredWithSubmission(t *testing.T) {
	db := setupTestDB(t)

	sub := newTestSubmission("track-delete")
	trk, err := db.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	if err := db.SoftDeleteSubmission(context.Background(), sub.ID); err != nil {
		t.Fatalf("SoftDeleteSubmission failed: %v", err)
	}

	if _, err := db.GetTrackingByCode(context.Background(), trk.TrackingCode); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected retired tracking to be invisible, got %v", err)
	}
}
