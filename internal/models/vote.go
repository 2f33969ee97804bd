// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteCriteria holds the five per-criterion scores of a vote.
// Each score is an integer from 1 to 5.
type VoteCriteria struct {
	CommunityBenefit int `json:"community_benefit" validate:"required,min=1,max=5"`
	ProblemFit       int `json:"problem_fit" validate:"required,min=1,max=5"`
	Feasibility      int `json:"feasibility" validate:"required,min=1,max=5"`
	Sustainability   int `json:"sustainability" validate:"required,min=1,max=5"`
	Appeal           int `json:"appeal" validate:"required,min=1,max=5"`
}

// Vote is a single community vote on a submission.
//
// Uniqueness is enforced at the storage layer: one vote per
// (submission, voter IP) and, when an email is given, one vote per
// (submission, voter email). VoterEmail is stored lowercased.
type Vote struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`

	VoterIP    string `json:"voter_ip"`
	VoterEmail string `json:"voter_email,omitempty"`

	Score    int          `json:"score"`
	Comment  string       `json:"comment,omitempty"`
	Criteria VoteCriteria `json:"criteria"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CastVoteRequest is the client payload for casting a vote.
// The voter IP is taken from the connection, not the payload. Every
// criterion must be rated; a vote with no criteria breakdown is invalid.
type CastVoteRequest struct {
	VoterEmail string        `json:"voter_email" validate:"omitempty,email"`
	Score      int           `json:"score" validate:"required,min=1,max=5"`
	Comment    string        `json:"comment" validate:"omitempty,max=500"`
	Criteria   *VoteCriteria `json:"criteria" validate:"required"`
}
