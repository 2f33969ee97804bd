// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the core schema.
//
// Vote deduplication relies on the two unique constraints on votes:
// one vote per (submission_id, voter_ip) and, when an email was given,
// one per (submission_id, voter_email). voter_email is stored as NULL
// when absent; NULLs never collide, so email-less votes only dedupe by IP.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tables := []struct {
		name string
		ddl  string
	}{
		{
			name: "submissions",
			ddl: `CREATE TABLE IF NOT EXISTS submissions (
				id UUID PRIMARY KEY,
				kind VARCHAR NOT NULL,
				title VARCHAR NOT NULL,
				description VARCHAR,
				short_description VARCHAR,
				category VARCHAR NOT NULL,
				problem VARCHAR NOT NULL,
				target_audience VARCHAR NOT NULL,
				maturity_level VARCHAR NOT NULL,
				status VARCHAR NOT NULL DEFAULT 'Pending',
				priority VARCHAR NOT NULL DEFAULT 'Medium',
				technologies VARCHAR,
				team_members VARCHAR,
				goals VARCHAR,
				budget DOUBLE NOT NULL DEFAULT 0,
				start_date TIMESTAMP,
				end_date TIMESTAMP,
				resources VARCHAR,
				attachment_url VARCHAR,
				submitter_name VARCHAR NOT NULL,
				submitter_email VARCHAR NOT NULL,
				submitter_phone VARCHAR,
				vote_count INTEGER NOT NULL DEFAULT 0,
				vote_total INTEGER NOT NULL DEFAULT 0,
				vote_average DOUBLE NOT NULL DEFAULT 0,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
		},
		{
			name: "votes",
			ddl: `CREATE TABLE IF NOT EXISTS votes (
				id UUID PRIMARY KEY,
				submission_id UUID NOT NULL,
				voter_ip VARCHAR NOT NULL,
				voter_email VARCHAR,
				score INTEGER NOT NULL,
				comment VARCHAR,
				community_benefit INTEGER NOT NULL,
				problem_fit INTEGER NOT NULL,
				feasibility INTEGER NOT NULL,
				sustainability INTEGER NOT NULL,
				appeal INTEGER NOT NULL,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL,
				UNIQUE (submission_id, voter_ip),
				UNIQUE (submission_id, voter_email)
			)`,
		},
		{
			name: "application_trackings",
			ddl: `CREATE TABLE IF NOT EXISTS application_trackings (
				id UUID PRIMARY KEY,
				submission_id UUID NOT NULL,
				email VARCHAR NOT NULL,
				tracking_code VARCHAR NOT NULL UNIQUE,
				last_updated TIMESTAMP NOT NULL,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL
			)`,
		},
		{
			name: "status_history",
			ddl: `CREATE TABLE IF NOT EXISTS status_history (
				tracking_id UUID NOT NULL,
				position INTEGER NOT NULL,
				status VARCHAR NOT NULL,
				occurred_at TIMESTAMP NOT NULL,
				note VARCHAR,
				moderator_note VARCHAR,
				PRIMARY KEY (tracking_id, position)
			)`,
		},
	}

	for _, table := range tables {
		if _, err := db.conn.ExecContext(ctx, table.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// createIndexes creates indexes for the hot query paths: listing by
// status/category, the public voting feed, and tracking lookups.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_category ON submissions(category)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_active ON submissions(active)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_submission ON votes(submission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trackings_email ON application_trackings(email)`,
		`CREATE INDEX IF NOT EXISTS idx_trackings_submission ON application_trackings(submission_id)`,
	}

	for _, index := range indexes {
		if _, err := db.conn.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
