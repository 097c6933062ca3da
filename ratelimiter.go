package qprogress

import (
	"sync"
	"time"
)

/*
RateLimiter throttles redraws with a token bucket. Each redraw consumes a
token and tokens come back at a fixed rate, so a tight loop over a wrapped
sequence does not spend its time repainting the terminal, while the first
few updates still show up immediately.

A refill rate of zero or less disables throttling.
*/
type RateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	clock      func() time.Time
	mu         sync.Mutex
}

/*
NewRateLimiter creates a limiter that allows bursts of maxTokens redraws and
regains one token every refillRate.
*/
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return newRateLimiter(maxTokens, refillRate, time.Now)
}

func newRateLimiter(maxTokens int, refillRate time.Duration, clock func() time.Time) *RateLimiter {
	now := clock()
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: now,
		clock:      clock,
	}
}

/*
Limit reports whether the next redraw should be skipped. When it returns
false a token has been consumed.
*/
func (rl *RateLimiter) Limit() bool {
	if rl.refillRate <= 0 {
		return false
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}
	return true
}

// Renormalize refills the bucket completely, so the next redraw always happens.
func (rl *RateLimiter) Renormalize() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = rl.maxTokens
	rl.lastRefill = rl.clock()
}

// refill adds one token per elapsed period. The caller must hold rl.mu.
func (rl *RateLimiter) refill() {
	elapsed := rl.clock().Sub(rl.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)

	if tokensToAdd > 0 {
		rl.tokens = min(rl.maxTokens, rl.tokens+tokensToAdd)
		// Only move lastRefill forward by the number of complete periods
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}
}
