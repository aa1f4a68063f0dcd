package http

import (
	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/ratelimit"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Data layer
	Books    BookStore
	Quotes   QuoteStore
	Stats    StatsProvider
	Exporter MarkdownRenderer

	// Health checks
	Storage  DocumentLister
	Database Pinger // nil unless the SQLite backend is in use

	// Authentication
	AuthController *auth.AuthController
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager

	// Request protection
	CSRFSecret     []byte // CSRF protection is disabled when empty
	SecureCookies  bool
	APIRateLimiter *ratelimit.KeyedRateLimiter

	// Application info
	Version string
}
