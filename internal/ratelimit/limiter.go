package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"
)

// RateLimitedError reports a quota excess for a key within its current
// window. It is a client-facing, non-fatal condition; callers translate it
// to HTTP 429 and the client retries after RetryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %d seconds", e.RetryAfterSeconds())
}

// RetryAfterSeconds returns the remaining wait rounded up to whole seconds,
// suitable for a Retry-After header.
func (e *RateLimitedError) RetryAfterSeconds() int {
	secs := int(math.Ceil(e.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// KeyFunc maps an inbound request to a client identity string.
type KeyFunc func(r *http.Request) string

// visitor tracks one client's usage within the current fixed window.
type visitor struct {
	count int
	reset time.Time
}

// Limiter is a fixed-window request counter keyed by client identity.
// The quota resets entirely at window boundaries. Entries for idle keys are
// dropped by an owned background sweep.
type Limiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	keyFn    KeyFunc
	visitors map[string]*visitor

	stop     chan struct{}
	sweeping bool
}

// New constructs a Limiter admitting at most max requests per window for
// each key. A nil keyFn defaults to ClientIPKey.
func New(max int, window time.Duration, keyFn KeyFunc) *Limiter {
	if keyFn == nil {
		keyFn = ClientIPKey
	}
	return &Limiter{
		max:      max,
		window:   window,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
	}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// Admit decides whether the request may proceed. It returns nil on
// admission and a *RateLimitedError once the key's quota for the current
// window is exhausted. The limiter never retries internally.
func (l *Limiter) Admit(r *http.Request) error {
	return l.AdmitKey(l.keyFn(r))
}

// AdmitKey is Admit for an already-derived identity string.
func (l *Limiter) AdmitKey(key string) error {
	nowTs := now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok || !nowTs.Before(v.reset) {
		l.visitors[key] = &visitor{count: 1, reset: nowTs.Add(l.window)}
		return nil
	}

	v.count++
	if v.count > l.max {
		return &RateLimitedError{RetryAfter: v.reset.Sub(nowTs)}
	}
	return nil
}

// Len returns the number of tracked keys. Diagnostics only.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// PurgeExpired removes entries whose window has already passed, bounding
// memory growth from abandoned keys.
func (l *Limiter) PurgeExpired() {
	nowTs := now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if !nowTs.Before(v.reset) {
			delete(l.visitors, key)
		}
	}
}

// Start launches the background sweep at the given interval.
// Calling Start on a limiter that is already sweeping is a no-op.
func (l *Limiter) Start(interval time.Duration) {
	l.mu.Lock()
	if l.sweeping {
		l.mu.Unlock()
		return
	}
	l.sweeping = true
	l.stop = make(chan struct{})
	stop := l.stop
	l.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.PurgeExpired()
			}
		}
	}()
}

// Stop terminates the background sweep. Safe to call when not sweeping.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.sweeping {
		return
	}
	l.sweeping = false
	close(l.stop)
}
