// Package ratelimit throttles repeated attempts per opaque identifier using a
// window-by-reset counter over an injectable store.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Record is the per-identifier counter state. Lives in the store with a fixed
// TTL window; created on first attempt and evicted once the window elapses.
type Record struct {
	Identifier string
	Count      int
	ResetTime  time.Time
}

// Result reports the outcome of a single attempt.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds until retry is allowed; 0 when allowed
}

// CounterStore holds rate limit counters. The check-then-increment in Take
// must be atomic per identifier so two concurrent attempts cannot both pass at
// exactly the boundary count. The in-memory implementation is process-local;
// a shared backend can be swapped in so concurrent processes share counts.
type CounterStore interface {
	// Take records one attempt and reports whether it is allowed. A fresh or
	// expired identifier starts a new window; within a window attempts are
	// allowed while the count is below the cap and denied at or above it.
	Take(ctx context.Context, identifier string, maxAttempts int, window time.Duration) (*Result, error)

	// Get returns the current record, or nil when none exists.
	Get(ctx context.Context, identifier string) (*Record, error)

	// Evict removes records whose window has elapsed and returns how many were
	// removed, bounding memory to active identifiers only.
	Evict(ctx context.Context, now time.Time) (int, error)
}

// Key builds a namespaced identifier (e.g. "pin_change:<user_id>"). Delimiter
// characters in the raw identifier are escaped so user-controlled input cannot
// collide with an adjacent bucket.
func Key(scope, identifier string) string {
	return fmt.Sprintf("%s:%s", scope, sanitizeKeySegment(identifier))
}

// sanitizeKeySegment escapes delimiter characters in key segments. Escape
// order matters: the escape character first, then the delimiter, so no two
// distinct inputs produce the same sanitized output.
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
