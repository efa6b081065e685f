package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate limit configuration for the inventory backend. The backend starts
// shedding load well before these numbers; keeping the client under them
// avoids tripping its throttling at all.
const (
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond = 20.0
	// BurstSize is the maximum burst size.
	BurstSize = 40
	// DefaultBackoffSeconds is the backoff applied on a 429 without a
	// Retry-After header.
	DefaultBackoffSeconds = 30
)

// RateLimiter paces outgoing requests with a token bucket and honours
// backoff windows set after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter with the backend defaults.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), BurstSize),
	}
}

// Wait blocks until a request may be sent, honouring the context.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff window after a 429 response.
// retryAfterSeconds should come from the Retry-After header when present.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = DefaultBackoffSeconds
	}
	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}
