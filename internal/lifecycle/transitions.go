// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package lifecycle defines the moderation state machine for submissions.
//
// The transition graph is strict and forward-only:
//
//	Pending -> Approved | Rejected | RevisionRequested
//	Approved -> Active
//	Active -> Completed
//
// Rejected, RevisionRequested, and Completed are terminal. A resubmission
// after a revision request is a new submission, not a transition.
package lifecycle

import (
	"github.com/ideabank/ideabank/internal/models"
)

// allowedTransitions maps each status to the set of statuses it may move to.
var allowedTransitions = map[models.Status][]models.Status{
	models.StatusPending: {
		models.StatusApproved,
		models.StatusRejected,
		models.StatusRevisionRequested,
	},
	models.StatusApproved: {models.StatusActive},
	models.StatusActive:   {models.StatusCompleted},
}

// CanTransition reports whether a submission may move from one status to
// another. Self-transitions are not allowed.
func CanTransition(from, to models.Status) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses reachable from the given status.
// Terminal statuses return nil.
func AllowedTargets(from models.Status) []models.Status {
	targets := allowedTransitions[from]
	if len(targets) == 0 {
		return nil
	}

	out := make([]models.Status, len(targets))
	copy(out, targets)
	return out
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(status models.Status) bool {
	return len(allowedTransitions[status]) == 0
}
