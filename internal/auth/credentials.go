// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ideabank/ideabank/internal/config"
)

// ErrInvalidCredentials is returned for any authentication failure.
// Deliberately indistinguishable between wrong username and wrong
// password to avoid leaking which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RoleModerator is the role placed in tokens for the admin account.
const RoleModerator = "moderator"

// CheckAdminCredentials verifies a login attempt against the configured
// admin account. The stored password is a bcrypt hash, never plaintext.
func CheckAdminCredentials(cfg *config.SecurityConfig, username, password string) error {
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" {
		return ErrInvalidCredentials
	}

	// Constant-time username comparison; bcrypt below is the slow part
	// either way, but this keeps the username check uniform too.
	usernameMatch := subtle.ConstantTimeCompare([]byte(cfg.AdminUsername), []byte(username)) == 1

	err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(password))
	if !usernameMatch || err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
// Exposed for provisioning tooling and tests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
