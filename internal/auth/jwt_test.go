// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ideabank/ideabank/internal/config"
)

func testSecurityConfig(t *testing.T) *config.SecurityConfig {
	t.Helper()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	return &config.SecurityConfig{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		SessionTimeout:    time.Hour,
		AdminUsername:     "moderator",
		AdminPasswordHash: hash,
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(&config.SecurityConfig{})
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig(t))
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("moderator", RoleModerator)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "moderator" {
		t.Errorf("expected username moderator, got %q", claims.Username)
	}
	if claims.Role != RoleModerator {
		t.Errorf("expected role %q, got %q", RoleModerator, claims.Role)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig(t))
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("moderator", RoleModerator)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token + "x"); err == nil {
		t.Error("expected tampered token to fail validation")
	}
	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("expected malformed token to fail validation")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testSecurityConfig(t)
	m1, _ := NewJWTManager(cfg)

	other := *cfg
	other.JWTSecret = "ffffffffffffffffffffffffffffffff"
	m2, _ := NewJWTManager(&other)

	token, err := m1.GenerateToken("moderator", RoleModerator)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m2.ValidateToken(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := testSecurityConfig(t)
	cfg.SessionTimeout = -time.Minute
	m, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("moderator", RoleModerator)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected expired token to fail validation")
	}
}

func TestCheckAdminCredentials(t *testing.T) {
	cfg := testSecurityConfig(t)

	if err := CheckAdminCredentials(cfg, "moderator", "correct horse battery staple"); err != nil {
		t.Errorf("expected valid credentials to pass, got %v", err)
	}

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "moderator", "wrong"},
		{"wrong username", "admin", "correct horse battery staple"},
		{"both wrong", "admin", "wrong"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckAdminCredentials(cfg, tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestCheckAdminCredentialsUnconfigured(t *testing.T) {
	err := CheckAdminCredentials(&config.SecurityConfig{}, "moderator", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unconfigured admin, got %v", err)
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig(t))
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	mw := NewMiddleware(m)

	var gotClaims *Claims
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _ := m.GenerateToken("moderator", RoleModerator)
		req := httptest.NewRequest(http.MethodGet, "/moderation/submissions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotClaims == nil || gotClaims.Username != "moderator" {
			t.Errorf("expected claims in context, got %+v", gotClaims)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/moderation/submissions", nil)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/moderation/submissions", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
