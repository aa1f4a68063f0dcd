// Package ratelimit provides a keyed token-bucket limiter for inbound API requests.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter gives each key (client IP) its own token bucket.
// Buckets idle for longer than idleTTL are dropped by a background sweep.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Options tunes a KeyedRateLimiter. Zero values take the defaults.
type Options struct {
	// IdleTTL is how long an untouched bucket is kept (default 10m).
	IdleTTL time.Duration
	// Now replaces the wall clock.
	Now func() time.Time
}

// New creates a limiter allowing rps sustained requests per key with the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return NewWithOptions(rps, burst, Options{})
}

// NewWithOptions is New with a custom idle TTL or clock.
func NewWithOptions(rps float64, burst int, opts Options) *KeyedRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  opts.IdleTTL,
		now:      opts.Now,
		done:     make(chan struct{}),
	}

	go krl.cleanupLoop(min(time.Minute, opts.IdleTTL))

	return krl
}

// Allow reports whether a request for key may proceed. It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	now := krl.now()
	e.lastSeen = now
	krl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Tokens returns what is left in key's bucket; an untracked key has a full bucket.
func (krl *KeyedRateLimiter) Tokens(key string) float64 {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	e, ok := krl.limiters[key]
	if !ok {
		return float64(krl.burst)
	}
	return e.limiter.TokensAt(krl.now())
}

// Reset forgets key, refilling its bucket.
func (krl *KeyedRateLimiter) Reset(key string) {
	krl.mu.Lock()
	delete(krl.limiters, key)
	krl.mu.Unlock()
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.sweep()
		case <-krl.done:
			return
		}
	}
}

func (krl *KeyedRateLimiter) sweep() {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()
	for key, e := range krl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(krl.limiters, key)
		}
	}
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (krl *KeyedRateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := "1"
	if krl.limit > 0 {
		retryAfter = strconv.Itoa(int(1/float64(krl.limit)) + 1)
	}

	return func(c *gin.Context) {
		if !krl.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
