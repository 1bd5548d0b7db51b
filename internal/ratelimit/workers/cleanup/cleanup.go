// Package cleanup hosts the periodic eviction worker that keeps the rate
// limit store bounded to active identifiers.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"sentra/internal/platform/metrics"
	"sentra/internal/ratelimit"
)

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// Worker sweeps the counter store on a fixed period, evicting records whose
// window has elapsed.
type Worker struct {
	store    ratelimit.CounterStore
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(store ratelimit.CounterStore, opts ...Option) *Worker {
	w := &Worker{
		store:    store,
		logger:   slog.Default(),
		interval: time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the sweep loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			evicted, err := w.RunOnce(ctx)
			if err != nil {
				w.logger.Error("rate_limit_cleanup_failed",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds(),
				)
				continue
			}

			w.logger.Info("rate_limit_cleanup_completed",
				"records_evicted", evicted,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if w.metrics != nil {
				w.metrics.RateLimitEvicted.Add(float64(evicted))
			}

		case <-ctx.Done():
			w.logger.Info("rate limit cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. Logging is handled by the caller (Start).
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	return w.store.Evict(ctx, time.Now())
}
