package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"sentra/internal/platform/metrics"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// Persistence is best-effort but observable: a failed append is retried a
// bounded number of times, and an event that exhausts its retries is surfaced
// on the Failures channel instead of being silently discarded. Audit loss is
// therefore itself monitorable.
type Publisher struct {
	store    Store
	events   chan Event
	failures chan Event
	wg       sync.WaitGroup
	logger   *slog.Logger
	metrics  *metrics.Metrics
	async    bool

	maxAttempts int
	retryDelay  time.Duration
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherMetrics counts events that exhaust their retries.
func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithRetry bounds the per-event retry budget for failed appends.
func WithRetry(attempts int, delay time.Duration) PublisherOption {
	return func(p *Publisher) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
		if delay > 0 {
			p.retryDelay = delay
		}
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:       store,
		failures:    make(chan Event, 64),
		maxAttempts: 3,
		retryDelay:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// Failures exposes events that exhausted their retry budget. Consumers should
// drain this channel and alert; if nobody drains it, overflowing failures are
// dropped with a log line rather than blocking persistence.
func (p *Publisher) Failures() <-chan Event {
	return p.failures
}

// Emit records an audit event. Events carry a ULID so the append-only log has
// sortable, globally unique record IDs. An event with no timestamp is stamped
// at emit time.
//
// The caller's context is deliberately not used for persistence: a request
// aborted mid-pipeline must still complete its audit write.
func (p *Publisher) Emit(_ context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.ID == "" {
		base.ID = ulid.Make().String()
	}
	if base.Severity == "" {
		base.Severity = SeverityInfo
	}
	if p.async {
		// Non-blocking send; drop to the failure channel if the buffer is full
		// to avoid blocking the hot path.
		select {
		case p.events <- base:
			return nil
		default:
			p.reportFailure(base)
			return nil
		}
	}
	return p.persist(base)
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.persist(event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"user_id", event.UserID,
			)
		}
	}
}

// persist appends with a bounded retry budget; exhaustion surfaces the event
// on the failure channel.
func (p *Publisher) persist(event Event) error {
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(p.retryDelay)
		}
		if err = p.store.Append(context.Background(), event); err == nil {
			return nil
		}
	}
	p.reportFailure(event)
	return err
}

func (p *Publisher) reportFailure(event Event) {
	if p.metrics != nil {
		p.metrics.AuditDropped.Inc()
	}
	select {
	case p.failures <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit failure channel full, event lost",
				"action", event.Action,
				"user_id", event.UserID,
			)
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// List returns the audit trail for a user.
func (p *Publisher) List(ctx context.Context, userID string) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}
