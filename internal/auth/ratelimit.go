package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter holds one token bucket per user
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates an empty rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// SetLimit sets the limit for a user in requests per minute.
// Bursts of up to a tenth of a minute's allowance are permitted, never
// fewer than 5.
func (r *RateLimiter) SetLimit(username string, rpm int) {
	burst := rpm / 10
	if burst < 5 {
		burst = 5
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[username] = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// RemoveLimit lifts any limit on the user
func (r *RateLimiter) RemoveLimit(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.limiters, username)
}

// Allow consumes a token for the user. Users without a limit always pass.
func (r *RateLimiter) Allow(username string) bool {
	r.mu.RLock()
	limiter, exists := r.limiters[username]
	r.mu.RUnlock()

	if !exists {
		return true
	}
	return limiter.Allow()
}

// Tokens returns the tokens currently available, or -1 when unlimited
func (r *RateLimiter) Tokens(username string) float64 {
	r.mu.RLock()
	limiter, exists := r.limiters[username]
	r.mu.RUnlock()

	if !exists {
		return -1
	}
	return limiter.Tokens()
}
