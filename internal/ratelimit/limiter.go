package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fivestars-server/internal/observability"
)

// Class names a rate-limit bucket with its own limit and window
type Class string

const (
	ClassOAuth         Class = "oauth"
	ClassReviewRequest Class = "reviewRequest"
	ClassAIGeneration  Class = "aiGeneration"
	ClassGeneral       Class = "general"
	ClassZapier        Class = "zapier"
)

type classLimit struct {
	limit  int
	window time.Duration
}

// classLimits is the full limit table. Classes not listed here fall back to
// the general limit.
var classLimits = map[Class]classLimit{
	ClassOAuth:         {limit: 10, window: time.Minute},
	ClassReviewRequest: {limit: 100, window: time.Hour},
	ClassAIGeneration:  {limit: 20, window: time.Hour},
	ClassGeneral:       {limit: 100, window: time.Minute},
	ClassZapier:        {limit: 1000, window: time.Minute},
}

// Result represents the outcome of a rate limit check. RetryAfter is set only
// on denial and is measured against the limiter's own clock, so it stays
// consistent with ResetAt.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by (class, identifier) may
// proceed. Injected so the in-process implementation can be swapped for a
// shared counter store in multi-instance deployments without touching call
// sites.
type Limiter interface {
	Check(ctx context.Context, class Class, identifier string) Result
}

type windowEntry struct {
	count    int
	windowAt time.Time
}

// FixedWindowLimiter is the in-process Limiter. Counters live in a
// mutex-guarded map keyed by "<class>:<identifier>"; a window starts on the
// first request and resets when it elapses. Best effort under horizontal
// scaling, each process counts independently.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	entries map[string]windowEntry
	logger  *observability.Logger
	now     func() time.Time
}

// NewFixedWindowLimiter creates an in-process fixed-window limiter
func NewFixedWindowLimiter(logger *observability.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		entries: make(map[string]windowEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// Check applies the fixed-window rule for the class and identifier
func (l *FixedWindowLimiter) Check(ctx context.Context, class Class, identifier string) Result {
	cl, ok := classLimits[class]
	if !ok {
		l.logger.Warn(ctx, "unknown rate limit class, using general limits",
			observability.Field{Key: "class", Value: string(class)})
		cl = classLimits[ClassGeneral]
	}

	key := string(class) + ":" + identifier
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Expired entries only cost memory, so cleanup is sampled rather than
	// done on every call.
	if rand.Intn(100) == 0 {
		l.cleanupLocked(now)
	}

	entry, exists := l.entries[key]
	windowEnd := entry.windowAt.Add(cl.window)

	if !exists || !now.Before(windowEnd) {
		l.entries[key] = windowEntry{count: 1, windowAt: now}
		return Result{
			Allowed:   true,
			Limit:     cl.limit,
			Remaining: cl.limit - 1,
			ResetAt:   now.Add(cl.window),
		}
	}

	if entry.count >= cl.limit {
		return Result{
			Allowed:    false,
			Limit:      cl.limit,
			Remaining:  0,
			ResetAt:    windowEnd,
			RetryAfter: windowEnd.Sub(now),
		}
	}

	entry.count++
	l.entries[key] = entry
	return Result{
		Allowed:   true,
		Limit:     cl.limit,
		Remaining: cl.limit - entry.count,
		ResetAt:   windowEnd,
	}
}

// cleanupLocked drops entries whose window has fully elapsed. Caller holds mu.
func (l *FixedWindowLimiter) cleanupLocked(now time.Time) {
	for key, entry := range l.entries {
		// The longest window across classes bounds how stale an entry can
		// be while still relevant.
		if now.Sub(entry.windowAt) > time.Hour {
			delete(l.entries, key)
		}
	}
}
