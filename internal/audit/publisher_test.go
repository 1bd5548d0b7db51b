package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// PublisherSuite tests audit persistence semantics.
//
// Justification: audit-loss observability is a hard requirement - an event
// that cannot be persisted must surface on the failure channel exactly once.
type PublisherSuite struct {
	suite.Suite
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

type failingStore struct {
	mu       sync.Mutex
	failures int // fail this many times before succeeding; -1 fails forever
	appends  int
}

func (f *failingStore) Append(_ context.Context, _ Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	if f.failures < 0 || f.appends <= f.failures {
		return errors.New("sink unavailable")
	}
	return nil
}

func (f *failingStore) ListByUser(_ context.Context, _ string) ([]Event, error) {
	return nil, nil
}

func (f *failingStore) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appends
}

func (s *PublisherSuite) TestSyncEmitPersists() {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	err := p.Emit(context.Background(), Event{UserID: "u1", Action: ActionAdminAccessCheck})
	s.Require().NoError(err)

	events, err := store.ListByUser(context.Background(), "u1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.NotEmpty(events[0].ID, "events get a ULID record ID")
	s.False(events[0].Timestamp.IsZero())
	s.Equal(SeverityInfo, events[0].Severity)
}

func (s *PublisherSuite) TestRetryThenSuccess() {
	store := &failingStore{failures: 2}
	p := NewPublisher(store, WithRetry(3, time.Millisecond))

	err := p.Emit(context.Background(), Event{UserID: "u1", Action: ActionRegistrationCheck})
	s.Require().NoError(err)
	s.Equal(3, store.appendCount())

	select {
	case ev := <-p.Failures():
		s.Failf("unexpected failure surfaced", "event: %+v", ev)
	default:
	}
}

func (s *PublisherSuite) TestExhaustedRetriesSurfaceExactlyOneFailure() {
	store := &failingStore{failures: -1}
	p := NewPublisher(store, WithRetry(2, time.Millisecond))

	err := p.Emit(context.Background(), Event{UserID: "u1", Action: ActionAdminAccessBlocked})
	s.Require().Error(err)

	select {
	case ev := <-p.Failures():
		s.Equal(ActionAdminAccessBlocked, ev.Action)
	case <-time.After(time.Second):
		s.Fail("expected failure on channel")
	}

	select {
	case <-p.Failures():
		s.Fail("expected exactly one failure per event")
	default:
	}
}

func (s *PublisherSuite) TestAsyncDrainOnClose() {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(16))

	for range 5 {
		s.Require().NoError(p.Emit(context.Background(), Event{UserID: "u2", Action: ActionAdminAccessCheck}))
	}
	p.Close()

	events, err := store.ListByUser(context.Background(), "u2")
	s.Require().NoError(err)
	s.Len(events, 5)
}

func (s *PublisherSuite) TestEmitIgnoresCancelledCaller() {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A request aborted mid-pipeline must still complete its audit write.
	s.Require().NoError(p.Emit(ctx, Event{UserID: "u3", Action: ActionAdminAccessDenied}))

	events, err := store.ListByUser(context.Background(), "u3")
	s.Require().NoError(err)
	s.Len(events, 1)
}
