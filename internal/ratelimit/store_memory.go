package ratelimit

import (
	"context"
	"sync"
	"time"

	shardedsync "sentra/pkg/platform/sync"
)

// InMemoryStore implements CounterStore over a concurrent map with per-key
// sharded locking, so the check-then-increment for one identifier never
// blocks unrelated identifiers. State is process-local; multiple processes do
// not share counts.
type InMemoryStore struct {
	locks   *shardedsync.ShardedMutex
	records sync.Map // identifier -> *Record
}

// NewInMemoryStore creates an empty in-memory counter store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{locks: shardedsync.NewShardedMutex()}
}

// Take atomically applies the check-then-increment under the identifier's
// shard lock.
func (s *InMemoryStore) Take(_ context.Context, identifier string, maxAttempts int, window time.Duration) (*Result, error) {
	now := time.Now()

	s.locks.Lock(identifier)
	defer s.locks.Unlock(identifier)

	rec := s.load(identifier)
	if rec == nil || now.After(rec.ResetTime) {
		// Fresh identifier, or the previous window elapsed: start over.
		rec = &Record{
			Identifier: identifier,
			Count:      1,
			ResetTime:  now.Add(window),
		}
		s.records.Store(identifier, rec)
		return s.result(true, rec, maxAttempts), nil
	}

	if rec.Count < maxAttempts {
		rec.Count++
		return s.result(true, rec, maxAttempts), nil
	}

	// At or above the cap: deny without incrementing.
	return s.result(false, rec, maxAttempts), nil
}

func (s *InMemoryStore) Get(_ context.Context, identifier string) (*Record, error) {
	s.locks.Lock(identifier)
	defer s.locks.Unlock(identifier)

	rec := s.load(identifier)
	if rec == nil {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *InMemoryStore) Evict(_ context.Context, now time.Time) (int, error) {
	evicted := 0
	s.records.Range(func(key, _ any) bool {
		identifier := key.(string)

		s.locks.Lock(identifier)
		// Re-load under the shard lock: the record may have been replaced
		// by a concurrent Take since Range yielded it.
		if rec := s.load(identifier); rec != nil && now.After(rec.ResetTime) {
			s.records.Delete(identifier)
			evicted++
		}
		s.locks.Unlock(identifier)
		return true
	})
	return evicted, nil
}

func (s *InMemoryStore) load(identifier string) *Record {
	value, ok := s.records.Load(identifier)
	if !ok {
		return nil
	}
	return value.(*Record)
}

func (s *InMemoryStore) result(allowed bool, rec *Record, maxAttempts int) *Result {
	remaining := maxAttempts - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:    allowed,
		Limit:      maxAttempts,
		Remaining:  remaining,
		ResetAt:    rec.ResetTime,
		RetryAfter: retryAfterSeconds(allowed, rec.ResetTime),
	}
}

// retryAfterSeconds calculates seconds until retry is allowed.
func retryAfterSeconds(allowed bool, resetAt time.Time) int {
	if allowed {
		return 0
	}
	seconds := int(time.Until(resetAt).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
