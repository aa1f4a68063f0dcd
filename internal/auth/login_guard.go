package auth

import (
	"sync"
	"time"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/ratelimit"
)

// LoginGuard locks a username out, per client IP, after repeated failed logins.
//
// Each IP+username pair has a bucket of MaxLoginAttempts failures that refills
// over RateLimitWindow. A failure that empties the bucket starts a lockout of
// LockoutDuration; the bucket is full again once the lockout ends.
type LoginGuard struct {
	failures *ratelimit.KeyedRateLimiter
	lockout  time.Duration
	now      func() time.Time

	mu     sync.Mutex
	locked map[string]time.Time
}

// NewLoginGuard starts a guard configured from the auth settings; call Stop when done.
func NewLoginGuard(cfg config.Auth) *LoginGuard {
	return newLoginGuard(cfg, time.Now)
}

func newLoginGuard(cfg config.Auth, now func() time.Time) *LoginGuard {
	attempts := cfg.MaxLoginAttempts
	if attempts <= 0 {
		attempts = config.DefaultMaxLoginAttempts
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = config.DefaultRateLimitWindow
	}
	lockout := cfg.LockoutDuration
	if lockout <= 0 {
		lockout = config.DefaultLockoutDuration
	}

	refill := float64(attempts) / window.Seconds()
	return &LoginGuard{
		failures: ratelimit.NewWithOptions(refill, attempts, ratelimit.Options{IdleTTL: window, Now: now}),
		lockout:  lockout,
		now:      now,
		locked:   make(map[string]time.Time),
	}
}

func loginKey(ip, username string) string {
	return ip + "\x00" + username
}

// Allow reports whether username may try to log in from ip, and otherwise how
// long the lockout has left.
func (g *LoginGuard) Allow(ip, username string) (bool, time.Duration) {
	key := loginKey(ip, username)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	until, ok := g.locked[key]
	if !ok {
		return true, 0
	}
	if now.Before(until) {
		return false, until.Sub(now)
	}
	delete(g.locked, key)
	return true, 0
}

// RecordFailure spends one attempt and reports whether the pair is now locked out.
func (g *LoginGuard) RecordFailure(ip, username string) (bool, time.Duration) {
	key := loginKey(ip, username)
	if g.failures.Allow(key) && g.failures.Tokens(key) >= 1 {
		return false, 0
	}

	g.failures.Reset(key)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	for k, until := range g.locked {
		if !now.Before(until) {
			delete(g.locked, k)
		}
	}
	g.locked[key] = now.Add(g.lockout)
	return true, g.lockout
}

// RecordSuccess forgets earlier failures for the pair.
func (g *LoginGuard) RecordSuccess(ip, username string) {
	key := loginKey(ip, username)
	g.failures.Reset(key)

	g.mu.Lock()
	delete(g.locked, key)
	g.mu.Unlock()
}

// Stop ends the background sweep of idle buckets.
func (g *LoginGuard) Stop() {
	g.failures.Stop()
}
