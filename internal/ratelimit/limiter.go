package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"sentra/internal/platform/metrics"
)

// Limiter throttles repeated attempts per identifier over a CounterStore.
type Limiter struct {
	store   CounterStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// LimiterOption configures the Limiter.
type LimiterOption func(*Limiter)

// WithLogger sets the logger for denied-attempt reporting.
func WithLogger(l *slog.Logger) LimiterOption {
	return func(lim *Limiter) { lim.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) LimiterOption {
	return func(lim *Limiter) { lim.metrics = m }
}

// NewLimiter creates a Limiter over the given store. Panics if the store is
// nil - fail fast at startup.
func NewLimiter(store CounterStore, opts ...LimiterOption) *Limiter {
	if store == nil {
		panic("ratelimit.NewLimiter: counter store is required")
	}
	lim := &Limiter{store: store}
	for _, opt := range opts {
		opt(lim)
	}
	return lim
}

// Allow records one attempt for the identifier and reports whether it may
// proceed. Fails open on store errors: throttling is protective, and a broken
// counter backend must not take the pipelines down with it.
func (l *Limiter) Allow(ctx context.Context, identifier string, maxAttempts int, window time.Duration) (bool, error) {
	res, err := l.store.Take(ctx, identifier, maxAttempts, window)
	if err != nil {
		if l.logger != nil {
			l.logger.WarnContext(ctx, "rate limit store unavailable, allowing attempt",
				"identifier", identifier,
				"error", err,
			)
		}
		return true, err
	}

	if !res.Allowed {
		if l.metrics != nil {
			l.metrics.RateLimitDenials.Inc()
		}
		if l.logger != nil {
			l.logger.InfoContext(ctx, "rate limit exceeded",
				"identifier", identifier,
				"limit", res.Limit,
				"retry_after_s", res.RetryAfter,
			)
		}
	}

	return res.Allowed, nil
}
