// Package auth provides registration, authentication and session handling.
//
// Credentials are stored as bcrypt hashes. A successful login stores the
// username in an scs session; the middleware resolves it back to a user and
// exposes the username to handlers, which pass it explicitly to every
// repository call.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # CSRF key; generated at startup if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_CSRF_ENABLED=true              # gorilla/csrf on unsafe methods
//
// # Usage
//
//	authService := auth.NewService(usersRepo, validator, cfg.Auth)
//	sessions, err := auth.NewSessionManager(sqlDB, cfg.Auth) // sqlDB may be nil
//	router.Use(sessions.SessionLoadSave())
//	router.Use(auth.NewMiddleware(authService, sessions).Handler())
//
// Extract the caller in handlers:
//
//	username := auth.GetUsername(c)
package auth
