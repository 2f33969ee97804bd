// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ideabank/ideabank/internal/config"
	"github.com/ideabank/ideabank/internal/models"
)

// testDBSemaphore limits concurrent database creation to prevent resource exhaustion in CI.
// When many tests run in parallel, too many concurrent DuckDB CGO calls can cause hangs.
// Setting to 1 fully serializes database creation to prevent resource contention.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes database creation for short periods to reduce contention.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout protection.
// Uses a 120-second timeout to fail fast if DuckDB hangs during connection.
//
// The semaphore is held for the ENTIRE test lifecycle (released via
// t.Cleanup), so only one test has an active DuckDB connection at a time.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	return setupTestDBWithMemory(t, "1GB")
}

// setupConcurrentTestDB creates a test database with higher memory for
// concurrent tests with many goroutines.
func setupConcurrentTestDB(t *testing.T) *DB {
	t.Helper()
	return setupTestDBWithMemory(t, "2GB")
}

func setupTestDBWithMemory(t *testing.T, maxMemory string) *DB {
	t.Helper()

	// Acquire semaphore to limit concurrency - blocks until available
	testDBSemaphore <- struct{}{}

	// Release only when the test COMPLETES, not after DB creation, to
	// prevent concurrent DuckDB CGO operations across tests.
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: maxMemory,
	}

	// Create database in a goroutine with timeout to prevent hangs.
	// DuckDB CGO calls can hang indefinitely under resource pressure.
	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

// newTestSubmission builds a valid idea submission. The suffix keeps
// submitter emails distinct across inserts.
func newTestSubmission(suffix string) *models.Submission {
	return &models.Submission{
		Kind:           models.KindIdea,
		Title:          "Community compost hubs " + suffix,
		Description:    "Neighborhood drop-off points for organic waste",
		Category:       models.CategoryEnvironment,
		Problem:        "Organic waste ends up in landfill",
		TargetAudience: "City residents",
		MaturityLevel:  models.MaturityIdea,
		SubmitterName:  "Ada Tester",
		SubmitterEmail: fmt.Sprintf("ada+%s@example.com", suffix),
	}
}

// createTestSubmission inserts a submission and fails the test on error.
func createTestSubmission(t *testing.T, db *DB, suffix string) *models.Submission {
	t.Helper()

	sub := newTestSubmission(suffix)
	if _, err := db.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("Failed to create test submission: %v", err)
	}
	return sub
}

// approveTestSubmission moves a fresh submission to Approved.
func approveTestSubmission(t *testing.T, db *DB, id uuid.UUID) {
	t.Helper()

	if _, err := db.UpdateStatus(context.Background(), id, models.StatusApproved, ""); err != nil {
		t.Fatalf("Failed to approve test submission: %v", err)
	}
}

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestGetRecordCounts(t *testing.T) {
	db := setupTestDB(t)

	createTestSubmission(t, db, "counts")

	submissions, votes, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts failed: %v", err)
	}
	if submissions != 1 {
		t.Errorf("expected 1 submission, got %d", submissions)
	}
	if votes != 0 {
		t.Errorf("expected 0 votes, got %d", votes)
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Checkpoint(context.Background()); err != nil {
		t.Fatalf("Checkpoint failed: %v", err)
	}
}
