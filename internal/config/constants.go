package config

import "time"

// Default locations for persisted state
const (
	// DefaultDataDir holds users.json, books.json and quotes.json
	DefaultDataDir = "./data"

	// DefaultDatabasePath is used when STORAGE_BACKEND=sqlite
	DefaultDatabasePath = "./readinglog.db"

	DefaultBackupDir = "./backups"
	DefaultExportDir = "./export"
)

// Login lockout defaults, used when the configured values are unset
const (
	DefaultMaxLoginAttempts = 5
	DefaultRateLimitWindow  = 15 * time.Minute
	DefaultLockoutDuration  = 30 * time.Minute
)
