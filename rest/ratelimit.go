// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy caps a requester at Requests per Per window.
type Policy struct {
	Requests int
	Per      time.Duration
}

// RateLimitSpec declares the rate-limit policies of a route. Global
// applies to every requester; GuestsOnly and UsersOnly apply to
// unauthenticated and authenticated requesters respectively. All
// applicable policies are enforced.
type RateLimitSpec struct {
	Global     *Policy
	GuestsOnly *Policy
	UsersOnly  *Policy
}

func (s *RateLimitSpec) policies(authenticated bool) map[string]*Policy {
	applicable := make(map[string]*Policy)
	if s.Global != nil {
		applicable["global"] = s.Global
	}
	if !authenticated && s.GuestsOnly != nil {
		applicable["guests"] = s.GuestsOnly
	}
	if authenticated && s.UsersOnly != nil {
		applicable["users"] = s.UsersOnly
	}
	return applicable
}

type rateLimitError struct {
	resetAt time.Time
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.resetAt.Format(time.RFC3339))
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore tracks one token bucket per requester key. Idle entries
// are pruned lazily while the lock is already held.
type limiterStore struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	lastCleanup time.Time

	cleanupInterval time.Duration
	maxIdle         time.Duration
}

func newLimiterStore() *limiterStore {
	return &limiterStore{
		entries:         make(map[string]*limiterEntry),
		cleanupInterval: time.Minute,
		maxIdle:         5 * time.Minute,
	}
}

// allow reports whether the requester identified by key may proceed
// under p. When rejected it also reports when the quota resets.
func (s *limiterStore) allow(key string, p *Policy) (time.Time, bool) {
	s.mu.Lock()

	now := time.Now()
	if now.Sub(s.lastCleanup) >= s.cleanupInterval {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.maxIdle {
				delete(s.entries, k)
			}
		}
		s.lastCleanup = now
	}

	entry, ok := s.entries[key]
	if !ok {
		interval := p.Per / time.Duration(p.Requests)
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(interval), p.Requests),
		}
		s.entries[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()

	reservation := entry.limiter.Reserve()
	if !reservation.OK() {
		return now.Add(p.Per), false
	}

	delay := reservation.Delay()
	if delay > 0 {
		reservation.Cancel()
		return now.Add(delay), false
	}
	return time.Time{}, true
}

// checkRateLimit enforces every applicable policy for the requester.
func checkRateLimit(r *http.Request, spec *RateLimitSpec, store *limiterStore, authenticated bool) error {
	if spec == nil {
		return nil
	}

	ip := clientIP(r)
	for class, policy := range spec.policies(authenticated) {
		resetAt, ok := store.allow(ip+"|"+class, policy)
		if !ok {
			return &rateLimitError{resetAt: resetAt}
		}
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
