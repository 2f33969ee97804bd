// Ideabank - Community Idea and Project Submission & Voting Service
// Copyright 2026 The Ideabank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ideabank/ideabank

// Package config provides layered application configuration.
//
// Configuration is loaded in three layers with increasing precedence:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
//
// See koanf.go for the loading implementation.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Host is the HTTP listen address.
	Host string `koanf:"host"`

	// Timeout applies to request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production enables
	// stricter validation of security settings.
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for tests.
	Path string `koanf:"path"`

	// MaxMemory limits DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads sets the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`

	// PreserveInsertionOrder keeps DuckDB's default result ordering.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// DefaultPageSize is used when a listing request omits page_size.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the page_size a client may request.
	MaxPageSize int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and request protection settings.
type SecurityConfig struct {
	// JWTSecret signs moderator session tokens. Required in production,
	// minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the moderator token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername and AdminPasswordHash (bcrypt) form the moderator
	// credential. Both must be set for the login endpoint to accept anyone.
	AdminUsername     string `koanf:"admin_username"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// Rate limiting for API endpoints.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed CORS origins. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks the configuration for invalid or insecure values.
// It is called automatically by LoadWithKoanf.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}

	// Production deployments must not run with weak or missing credentials.
	if c.IsProduction() {
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters in production")
		}
		if c.Security.AdminUsername == "" || c.Security.AdminPasswordHash == "" {
			return fmt.Errorf("security.admin_username and security.admin_password_hash are required in production")
		}
	}

	return nil
}
