// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package metrics defines the Prometheus instrumentation. All collectors
// are registered with the default registry via promauto and exposed on
// /metrics by the router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path pattern, and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabank_http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration observes HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideabank_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SubmissionsCreated counts created submissions by kind and category.
	SubmissionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabank_submissions_created_total",
			Help: "Submissions created",
		},
		[]string{"kind", "category"},
	)

	// VotesCast counts successfully recorded votes.
	VotesCast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideabank_votes_cast_total",
			Help: "Votes recorded",
		},
	)

	// DuplicateVotes counts rejected duplicate vote attempts.
	DuplicateVotes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideabank_duplicate_votes_total",
			Help: "Vote attempts rejected as duplicates",
		},
	)

	// StatusTransitions counts moderation transitions by source and target.
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabank_status_transitions_total",
			Help: "Moderation status transitions applied",
		},
		[]string{"from", "to"},
	)

	// TrackingLookups counts tracking lookups by mode (code or email).
	TrackingLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabank_tracking_lookups_total",
			Help: "Tracking lookups served",
		},
		[]string{"mode"},
	)
)

// RecordRequest records one HTTP request observation.
func RecordRequest(method, path, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, path, status).Inc()
	RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSubmissionCreated records a successfully created submission.
func RecordSubmissionCreated(kind, category string) {
	SubmissionsCreated.WithLabelValues(kind, category).Inc()
}

// RecordVoteCast records a successful vote.
func RecordVoteCast() {
	VotesCast.Inc()
}

// RecordDuplicateVote records a rejected duplicate vote attempt.
func RecordDuplicateVote() {
	DuplicateVotes.Inc()
}

// RecordStatusTransition records an applied moderation transition.
func RecordStatusTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}

// RecordTrackingLookup records a tracking lookup by mode.
func RecordTrackingLookup(mode string) {
	TrackingLookups.WithLabelValues(mode).Inc()
}
