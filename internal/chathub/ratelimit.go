package chathub

import "time"

// RateLimiter enforces a per-identity sliding window cap on message sends:
// at most `cap` sends inside any trailing `window`. Timestamps are kept per
// identity and pruned lazily on each check.
//
// It lives inside the hub's serialization domain, so unlike the classic
// standalone limiter it carries no mutex.
type RateLimiter struct {
	cap    int
	window time.Duration
	hits   map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing cap sends per window.
func NewRateLimiter(cap int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		cap:    cap,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// Allow reports whether the identity may send at instant now. An allowed
// send is recorded; a rejected one records nothing, so hammering the cap
// does not extend the penalty.
func (rl *RateLimiter) Allow(userID string, now time.Time) bool {
	cutoff := now.Add(-rl.window)

	recent := rl.hits[userID][:0]
	for _, t := range rl.hits[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.cap {
		rl.hits[userID] = recent
		return false
	}

	rl.hits[userID] = append(recent, now)
	return true
}

// Forget drops the identity's window entirely.
func (rl *RateLimiter) Forget(userID string) {
	delete(rl.hits, userID)
}

// Sweep drops windows whose most recent send is older than maxIdle and
// returns how many were dropped. Called by the periodic reaper.
func (rl *RateLimiter) Sweep(now time.Time, maxIdle time.Duration) int {
	cutoff := now.Add(-maxIdle)
	dropped := 0
	for userID, times := range rl.hits {
		if len(times) == 0 || times[len(times)-1].Before(cutoff) {
			delete(rl.hits, userID)
			dropped++
		}
	}
	return dropped
}

// TrackedCount returns how many identities currently have a window.
func (rl *RateLimiter) TrackedCount() int {
	return len(rl.hits)
}
