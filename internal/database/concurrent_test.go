// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ideabank/ideabank/internal/models"
)

// TestConcurrentVotes exercises the per-submission lock: many voters on
// the same submission must all land, and the aggregates must equal the
// ledger exactly.
func TestConcurrentVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in short mode")
	}

	db := setupConcurrentTestDB(t)

	sub := createTestSubmission(t, db, "concurrent")
	approveTestSubmission(t, db, sub.ID)

	const voters = 50

	var wg sync.WaitGroup
	errCh := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			vote := newTestVote(sub, fmt.Sprintf("10.2.%d.%d", n/256, n%256), (n%5)+1)
			if err := db.CastVote(context.Background(), vote); err != nil {
				errCh <- fmt.Errorf("voter %d: %w", n, err)
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Error(err)
	}

	got, err := db.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.VoteCount != voters {
		t.Errorf("expected %d votes, got %d", voters, got.VoteCount)
	}

	votes, err := db.ListVotes(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("ListVotes failed: %v", err)
	}
	total := 0
	for _, v := range votes {
		total += v.Score
	}
	if got.VoteTotal != total {
		t.Errorf("aggregate total %d does not match ledger total %d", got.VoteTotal, total)
	}
}

// TestConcurrentDuplicateVotes races the same voter against itself:
// exactly one attempt wins.
func TestConcurrentDuplicateVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in short mode")
	}

	db := setupConcurrentTestDB(t)

	sub := createTestSubmission(t, db, "concurrent-dup")
	approveTestSubmission(t, db, sub.ID)

	const attempts = 20

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.CastVote(context.Background(), newTestVote(sub, "10.3.0.1", 4))
		}()
	}

	wg.Wait()
	close(results)

	succeeded, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrDuplicateVote):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful vote, got %d", succeeded)
	}
	if duplicates != attempts-1 {
		t.Errorf("expected %d duplicates, got %d", attempts-1, duplicates)
	}

	got, err := db.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.VoteCount != 1 {
		t.Errorf("expected vote count 1, got %d", got.VoteCount)
	}
}

// TestConcurrentTransitions races moderators over the same submission:
// only one Pending transition can win.
func TestConcurrentTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in short mode")
	}

	db := setupConcurrentTestDB(t)

	sub := createTestSubmission(t, db, "concurrent-mod")

	var wg sync.WaitGroup
	results := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.UpdateStatus(context.Background(), sub.ID, models.StatusApproved, "")
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidTransition):
			// Losers see the already-approved submission.
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful transition, got %d", succeeded)
	}
}
