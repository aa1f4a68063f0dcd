package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/config"
)

func newTestLoginGuard(maxAttempts int, now func() time.Time) *LoginGuard {
	return newLoginGuard(config.Auth{
		MaxLoginAttempts: maxAttempts,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  2 * time.Minute,
	}, now)
}

func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestLoginGuard_LocksAfterMaxFailures(t *testing.T) {
	clock, _ := fixedClock(time.Now())
	g := newTestLoginGuard(3, clock)
	defer g.Stop()

	for i := 0; i < 3; i++ {
		if allowed, _ := g.Allow("192.168.1.1", "alice"); !allowed {
			t.Errorf("Attempt %d should be allowed", i+1)
		}
		locked, _ := g.RecordFailure("192.168.1.1", "alice")
		if locked != (i == 2) {
			t.Errorf("Failure %d: locked=%v", i+1, locked)
		}
	}

	allowed, retryAfter := g.Allow("192.168.1.1", "alice")
	if allowed {
		t.Error("4th attempt should be blocked")
	}
	if retryAfter != 2*time.Minute {
		t.Errorf("Expected retryAfter 2m, got %v", retryAfter)
	}
}

func TestLoginGuard_SuccessResetsFailures(t *testing.T) {
	clock, _ := fixedClock(time.Now())
	g := newTestLoginGuard(3, clock)
	defer g.Stop()

	g.RecordFailure("192.168.1.1", "alice")
	g.RecordFailure("192.168.1.1", "alice")
	g.RecordSuccess("192.168.1.1", "alice")

	if locked, _ := g.RecordFailure("192.168.1.1", "alice"); locked {
		t.Error("Failures before a successful login should not count")
	}
}

func TestLoginGuard_PairsAreIndependent(t *testing.T) {
	clock, _ := fixedClock(time.Now())
	g := newTestLoginGuard(2, clock)
	defer g.Stop()

	g.RecordFailure("192.168.1.1", "alice")
	g.RecordFailure("192.168.1.1", "alice")

	if allowed, _ := g.Allow("192.168.1.1", "alice"); allowed {
		t.Error("alice should be blocked")
	}
	if allowed, _ := g.Allow("192.168.1.1", "bob"); !allowed {
		t.Error("bob should be allowed")
	}
	if allowed, _ := g.Allow("10.0.0.9", "alice"); !allowed {
		t.Error("alice from another IP should be allowed")
	}
}

func TestLoginGuard_FailuresRefillOverWindow(t *testing.T) {
	clock, advance := fixedClock(time.Now())
	g := newTestLoginGuard(2, clock)
	defer g.Stop()

	g.RecordFailure("10.0.0.1", "alice")
	advance(time.Minute)

	if locked, _ := g.RecordFailure("10.0.0.1", "alice"); locked {
		t.Error("A failure outside the window should not lock the pair")
	}
}

func TestLoginGuard_LockoutExpires(t *testing.T) {
	clock, advance := fixedClock(time.Now())
	g := newTestLoginGuard(1, clock)
	defer g.Stop()

	if locked, _ := g.RecordFailure("10.0.0.1", "alice"); !locked {
		t.Fatal("Single allowed attempt should lock on failure")
	}

	advance(time.Minute)
	if allowed, retryAfter := g.Allow("10.0.0.1", "alice"); allowed || retryAfter != time.Minute {
		t.Fatalf("Expected 1m of lockout left, got allowed=%v retryAfter=%v", allowed, retryAfter)
	}

	advance(time.Minute)
	if allowed, _ := g.Allow("10.0.0.1", "alice"); !allowed {
		t.Error("Lockout should have expired")
	}

	g.mu.Lock()
	remaining := len(g.locked)
	g.mu.Unlock()
	if remaining != 0 {
		t.Errorf("Expected expired lockout to be dropped, %d left", remaining)
	}
}

func TestLoginGuard_UsesDefaultsForUnsetConfig(t *testing.T) {
	g := NewLoginGuard(config.Auth{})
	defer g.Stop()

	for i := 0; i < config.DefaultMaxLoginAttempts-1; i++ {
		if locked, _ := g.RecordFailure("10.0.0.1", "alice"); locked {
			t.Fatalf("Locked after %d failures", i+1)
		}
	}
	if locked, retryAfter := g.RecordFailure("10.0.0.1", "alice"); !locked || retryAfter != config.DefaultLockoutDuration {
		t.Errorf("Expected lockout of %v, got locked=%v retryAfter=%v", config.DefaultLockoutDuration, locked, retryAfter)
	}
}

func TestLoginGuard_StopIsIdempotent(t *testing.T) {
	g := NewLoginGuard(config.Auth{})
	g.Stop()
	g.Stop()
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	headers := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "no-store",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for header, expected := range headers {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("Header %s = %q, want %q", header, got, expected)
		}
	}
	if pp := rr.Header().Get("Permissions-Policy"); pp == "" {
		t.Error("Permissions-Policy header should be set")
	}
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Error("HSTS should not be set for HTTP requests")
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts == "" {
		t.Error("HSTS should be set for HTTPS requests")
	}
}
