// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package tracking generates the opaque codes submitters use to follow
// their submission through moderation without authenticating.
package tracking

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// CodeLength is the fixed length of a tracking code.
const CodeLength = 8

// alphabet is uppercase base36. Codes are case-normalized on lookup,
// so there is no ambiguity for users typing them back in.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var codePattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

// GenerateCode returns a random 8-character uppercase base36 code.
// Uniqueness is enforced by the caller against storage; at 36^8 (~2.8e12)
// possible codes, collisions are rare enough that a retry loop suffices.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	// 256 % 36 = 4, so plain modulo skews the first four symbols by
	// less than 2%. Acceptable for an opaque lookup code.
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}

// ValidCode reports whether s has the shape of a tracking code.
// Lookups should uppercase user input before calling this.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
