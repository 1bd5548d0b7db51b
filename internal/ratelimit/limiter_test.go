package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sentra/pkg/testutil"
)

// LimiterSuite verifies the window-by-reset counting contract. The
// check-then-increment boundary is the one place where a race could let two
// concurrent attempts both pass at the cap.
type LimiterSuite struct {
	suite.Suite
	store   *InMemoryStore
	limiter *Limiter
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.limiter = NewLimiter(s.store)
}

func (s *LimiterSuite) TestExactlyMaxAttemptsAllowed() {
	ctx := context.Background()
	window := time.Minute

	for i := 1; i <= 3; i++ {
		allowed, err := s.limiter.Allow(ctx, "pin_change:u1", 3, window)
		s.Require().NoError(err)
		s.True(allowed, "attempt %d should be allowed", i)
	}

	allowed, err := s.limiter.Allow(ctx, "pin_change:u1", 3, window)
	s.Require().NoError(err)
	s.False(allowed, "4th attempt must be denied")
}

func (s *LimiterSuite) TestWindowResets() {
	ctx := context.Background()
	window := 20 * time.Millisecond

	for range 3 {
		allowed, err := s.limiter.Allow(ctx, "reg:1.2.3.4", 3, window)
		s.Require().NoError(err)
		s.True(allowed)
	}
	allowed, err := s.limiter.Allow(ctx, "reg:1.2.3.4", 3, window)
	s.Require().NoError(err)
	s.False(allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, err = s.limiter.Allow(ctx, "reg:1.2.3.4", 3, window)
	s.Require().NoError(err)
	s.True(allowed, "a fresh window starts after the reset time")

	rec, err := s.store.Get(ctx, "reg:1.2.3.4")
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Equal(1, rec.Count)
}

func (s *LimiterSuite) TestIndependentIdentifiers() {
	ctx := context.Background()

	for range 3 {
		allowed, err := s.limiter.Allow(ctx, "reg:1.1.1.1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(allowed)
	}

	allowed, err := s.limiter.Allow(ctx, "reg:2.2.2.2", 3, time.Minute)
	s.Require().NoError(err)
	s.True(allowed, "other identifiers are unaffected")
}

func (s *LimiterSuite) TestCountNeverExceedsCapUnderConcurrency() {
	ctx := context.Background()
	const workers = 20
	const max = 5

	result := testutil.RunConcurrent(workers, func(_ int) (bool, error) {
		return s.limiter.Allow(ctx, "burst:key", max, time.Minute)
	})

	s.Zero(result.Errors)
	s.Equal(int32(max), result.Passed, "exactly maxAttempts concurrent attempts pass")
	s.Equal(int32(workers-max), result.Denied)

	rec, err := s.store.Get(ctx, "burst:key")
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.LessOrEqual(rec.Count, max)
}

func (s *LimiterSuite) TestEvictRemovesOnlyExpired() {
	ctx := context.Background()

	_, err := s.limiter.Allow(ctx, "short", 3, 10*time.Millisecond)
	s.Require().NoError(err)
	_, err = s.limiter.Allow(ctx, "long", 3, time.Hour)
	s.Require().NoError(err)

	time.Sleep(20 * time.Millisecond)

	evicted, err := s.store.Evict(ctx, time.Now())
	s.Require().NoError(err)
	s.Equal(1, evicted)

	rec, err := s.store.Get(ctx, "long")
	s.Require().NoError(err)
	s.NotNil(rec, "active identifiers survive the sweep")

	rec, err = s.store.Get(ctx, "short")
	s.Require().NoError(err)
	s.Nil(rec)
}

func TestKeySanitization(t *testing.T) {
	if Key("reg", "user:admin") == Key("reg", "user_cadmin") {
		t.Fatal("distinct raw identifiers must not collide after sanitization")
	}
	if Key("reg", "a") != "reg:a" {
		t.Fatalf("unexpected key format: %s", Key("reg", "a"))
	}
}
