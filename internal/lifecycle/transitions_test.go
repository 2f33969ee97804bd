// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package lifecycle

import (
	"testing"

	"github.com/ideabank/ideabank/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.Status
		to   models.Status
		want bool
	}{
		{"pending to approved", models.StatusPending, models.StatusApproved, true},
		{"pending to rejected", models.StatusPending, models.StatusRejected, true},
		{"pending to revision requested", models.StatusPending, models.StatusRevisionRequested, true},
		{"approved to active", models.StatusApproved, models.StatusActive, true},
		{"active to completed", models.StatusActive, models.StatusCompleted, true},

		{"pending to active skips approval", models.StatusPending, models.StatusActive, false},
		{"pending to completed skips lifecycle", models.StatusPending, models.StatusCompleted, false},
		{"approved back to pending", models.StatusApproved, models.StatusPending, false},
		{"approved to completed skips active", models.StatusApproved, models.StatusCompleted, false},
		{"rejected is terminal", models.StatusRejected, models.StatusPending, false},
		{"revision requested is terminal", models.StatusRevisionRequested, models.StatusApproved, false},
		{"completed is terminal", models.StatusCompleted, models.StatusActive, false},
		{"no self transition", models.StatusPending, models.StatusPending, false},
		{"unknown status", models.Status("Bogus"), models.StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAllowedTargets(t *testing.T) {
	targets := AllowedTargets(models.StatusPending)
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets from Pending, got %d", len(targets))
	}

	if got := AllowedTargets(models.StatusCompleted); got != nil {
		t.Errorf("expected no targets from Completed, got %v", got)
	}

	// Returned slice must be a copy.
	targets[0] = models.StatusCompleted
	if CanTransition(models.StatusPending, models.StatusCompleted) {
		t.Error("mutating the returned slice changed the transition graph")
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []models.Status{
		models.StatusRejected,
		models.StatusRevisionRequested,
		models.StatusCompleted,
	}
	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	for _, s := range []models.Status{models.StatusPending, models.StatusApproved, models.StatusActive} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}
