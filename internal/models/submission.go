// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package models defines the domain types shared by the database and API layers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionKind distinguishes a lightweight idea from a full project proposal.
type SubmissionKind string

// Submission kinds.
const (
	KindIdea    SubmissionKind = "idea"
	KindProject SubmissionKind = "project"
)

// Category is the thematic category of a submission.
type Category string

// Submission categories.
const (
	CategoryTechnology  Category = "Technology"
	CategoryHealth      Category = "Health"
	CategoryEducation   Category = "Education"
	CategoryEnvironment Category = "Environment"
	CategorySocial      Category = "Social"
	CategoryEconomy     Category = "Economy"
	CategoryCulture     Category = "Culture"
	CategoryOther       Category = "Other"
)

// Status is the moderation lifecycle state of a submission.
type Status string

// Submission statuses. New submissions always start Pending; see the
// lifecycle package for the allowed transitions.
const (
	StatusPending           Status = "Pending"
	StatusApproved          Status = "Approved"
	StatusRejected          Status = "Rejected"
	StatusRevisionRequested Status = "RevisionRequested"
	StatusActive            Status = "Active"
	StatusCompleted         Status = "Completed"
)

// Priority is the moderator-assigned priority of a submission.
type Priority string

// Submission priorities.
const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// MaturityLevel describes how far along a submission is.
// Ideas allow {idea, mvp, live}; projects additionally allow
// {prototype, development}.
type MaturityLevel string

// Maturity levels.
const (
	MaturityIdea        MaturityLevel = "idea"
	MaturityMVP         MaturityLevel = "mvp"
	MaturityPrototype   MaturityLevel = "prototype"
	MaturityLive        MaturityLevel = "live"
	MaturityDevelopment MaturityLevel = "development"
)

// Submission is a community idea or project proposal.
//
// The vote aggregate fields (VoteCount, VoteTotal, VoteAverage) are derived
// from the vote ledger and must only be written by the vote recompute path,
// never by submission updates. VoteAverage is rounded half-up to one decimal
// and always lies in [0, 5].
type Submission struct {
	ID   uuid.UUID      `json:"id"`
	Kind SubmissionKind `json:"kind"`

	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	Category         Category `json:"category"`
	Problem          string   `json:"problem"`
	TargetAudience   string   `json:"target_audience"`

	MaturityLevel MaturityLevel `json:"maturity_level"`
	Status        Status        `json:"status"`
	Priority      Priority      `json:"priority"`

	// Project-only fields. Empty for ideas.
	Technologies string     `json:"technologies,omitempty"`
	TeamMembers  string     `json:"team_members,omitempty"`
	Goals        string     `json:"goals,omitempty"`
	Budget       float64    `json:"budget,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`

	Resources     string `json:"resources,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`

	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email"`
	SubmitterPhone string `json:"submitter_phone,omitempty"`

	// Derived vote aggregates.
	VoteCount   int     `json:"vote_count"`
	VoteTotal   int     `json:"vote_total"`
	VoteAverage float64 `json:"vote_average"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSubmissionRequest carries the submitter-provided fields of a new
// submission. Cross-field rules (kind-dependent maturity levels and required
// fields) are enforced by Validate in addition to the struct tags.
type CreateSubmissionRequest struct {
	Kind             SubmissionKind `json:"kind" validate:"required,oneof=idea project"`
	Title            string         `json:"title" validate:"required,max=100"`
	Description      string         `json:"description" validate:"omitempty,max=1000"`
	ShortDescription string         `json:"short_description" validate:"omitempty,max=280"`
	Category         Category       `json:"category" validate:"required,oneof=Technology Health Education Environment Social Economy Culture Other"`
	Problem          string         `json:"problem" validate:"required,max=500"`
	TargetAudience   string         `json:"target_audience" validate:"required,max=300"`
	MaturityLevel    MaturityLevel  `json:"maturity_level" validate:"required,oneof=idea mvp prototype live development"`

	Technologies string  `json:"technologies" validate:"omitempty,max=300"`
	TeamMembers  string  `json:"team_members" validate:"omitempty,max=500"`
	Goals        string  `json:"goals" validate:"omitempty,max=500"`
	Budget       float64 `json:"budget" validate:"omitempty,gte=0"`
	StartDate    string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`

	Resources     string `json:"resources" validate:"omitempty,max=500"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`

	SubmitterName  string `json:"submitter_name" validate:"required,max=100"`
	SubmitterEmail string `json:"submitter_email" validate:"required,email"`
	SubmitterPhone string `json:"submitter_phone" validate:"omitempty,max=20"`
}

// ideaMaturityLevels and projectMaturityLevels define the kind-dependent
// maturity vocabulary.
var (
	ideaMaturityLevels = map[MaturityLevel]bool{
		MaturityIdea: true, MaturityMVP: true, MaturityLive: true,
	}
	projectMaturityLevels = map[MaturityLevel]bool{
		MaturityIdea: true, MaturityMVP: true, MaturityPrototype: true,
		MaturityLive: true, MaturityDevelopment: true,
	}
)

// MaturityAllowedFor reports whether the maturity level is valid for the kind.
func MaturityAllowedFor(kind SubmissionKind, level MaturityLevel) bool {
	switch kind {
	case KindIdea:
		return ideaMaturityLevels[level]
	case KindProject:
		return projectMaturityLevels[level]
	default:
		return false
	}
}

// UpdateSubmissionRequest carries the mutable fields of a submission.
// Status, vote aggregates, and the active flag are deliberately absent:
// status changes go through the moderation transition endpoint and the
// aggregates belong to the vote ledger.
type UpdateSubmissionRequest struct {
	Title            string        `json:"title" validate:"omitempty,max=100"`
	Description      string        `json:"description" validate:"omitempty,max=1000"`
	ShortDescription string        `json:"short_description" validate:"omitempty,max=280"`
	Category         Category      `json:"category" validate:"omitempty,oneof=Technology Health Education Environment Social Economy Culture Other"`
	Problem          string        `json:"problem" validate:"omitempty,max=500"`
	TargetAudience   string        `json:"target_audience" validate:"omitempty,max=300"`
	MaturityLevel    MaturityLevel `json:"maturity_level" validate:"omitempty,oneof=idea mvp prototype live development"`
	Priority         Priority      `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`

	Technologies string  `json:"technologies" validate:"omitempty,max=300"`
	TeamMembers  string  `json:"team_members" validate:"omitempty,max=500"`
	Goals        string  `json:"goals" validate:"omitempty,max=500"`
	Budget       float64 `json:"budget" validate:"omitempty,gte=0"`

	Resources     string `json:"resources" validate:"omitempty,max=500"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

// SubmissionFilter narrows submission listings.
// Zero values mean "no constraint".
type SubmissionFilter struct {
	Kind     SubmissionKind
	Category Category
	Status   Status
	// Search matches title, description, and short description
	// case-insensitively.
	Search string
}

// SubmissionPage is a paginated listing result.
type SubmissionPage struct {
	Items       []*Submission `json:"items"`
	TotalCount  int           `json:"total_count"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// CategoryCount is one row of the category statistics aggregate.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// VotingSort orders the public voting listing.
type VotingSort string

// Voting listing sort orders.
const (
	SortNewest    VotingSort = "newest"
	SortOldest    VotingSort = "oldest"
	SortPopular   VotingSort = "popular"
	SortMostVoted VotingSort = "mostVoted"
)
