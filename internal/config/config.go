package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type StorageBackend string

const (
	StorageJSON   StorageBackend = "json"   // One JSON document per collection (default)
	StorageSQLite StorageBackend = "sqlite" // Documents kept in a SQLite table
)

type (
	Config struct {
		HTTP
		Global
		Storage
		Auth
		APIRateLimit
		Backup
		Export
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Storage struct {
		Backend      StorageBackend
		DataDir      string // Base directory for JSON documents
		DatabasePath string // SQLite file for the sqlite backend
	}
	Auth struct {
		SessionSecret   string // CSRF key; a random one is generated per process when empty
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFEnabled     bool

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	APIRateLimit struct {
		RPS   float64 // Sustained requests per second per client; 0 disables the limiter
		Burst int
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
		Dir      string
		Keep     int // Number of snapshots to retain
	}
	Export struct {
		Dir string // Directory for markdown exports
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Storage defaults
	v.SetDefault("storage_backend", string(StorageJSON))
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_csrf_enabled", true)       // Only effective with a session secret
	v.SetDefault("auth_max_login_attempts", DefaultMaxLoginAttempts)
	v.SetDefault("auth_rate_limit_window", DefaultRateLimitWindow)
	v.SetDefault("auth_lockout_duration", DefaultLockoutDuration)

	v.SetDefault("api_rate_limit_rps", 10.0)
	v.SetDefault("api_rate_limit_burst", 20)

	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_keep", 24)

	v.SetDefault("export_dir", DefaultExportDir)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Storage: Storage{
			Backend:      StorageBackend(strings.ToLower(v.GetString("STORAGE_BACKEND"))),
			DataDir:      v.GetString("DATA_DIR"),
			DatabasePath: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFEnabled:      v.GetBool("AUTH_CSRF_ENABLED"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		APIRateLimit: APIRateLimit{
			RPS:   v.GetFloat64("API_RATE_LIMIT_RPS"),
			Burst: v.GetInt("API_RATE_LIMIT_BURST"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Export: Export{
			Dir: v.GetString("EXPORT_DIR"),
		},
	}
}
