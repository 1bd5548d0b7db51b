package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the trust-decision core.
type Metrics struct {
	// Admin access pipeline
	AccessDecisions      *prometheus.CounterVec // outcome: granted|denied|blocked
	AccessCheckLatency   prometheus.Histogram
	DegradedOracleTotal  *prometheus.CounterVec // oracle: risk|fraud
	ValidationTokens     prometheus.Counter

	// Registration pipeline
	RegistrationOutcomes *prometheus.CounterVec // outcome: allow|challenge|deny
	CaptchaRequired      prometheus.Counter

	// Shared infrastructure
	RateLimitDenials  prometheus.Counter
	RateLimitEvicted  prometheus.Counter
	AuditDropped      prometheus.Counter
	SessionRecoveries *prometheus.CounterVec // result: refresh|rehydrate|exhausted
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccessDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_access_decisions_total",
			Help: "Total admin access decisions by outcome",
		}, []string{"outcome"}),
		AccessCheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentra_access_check_latency_seconds",
			Help:    "Latency of admin access checks in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		DegradedOracleTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_degraded_oracle_total",
			Help: "Non-critical oracle failures absorbed via safe defaults",
		}, []string{"oracle"}),
		ValidationTokens: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentra_validation_tokens_issued_total",
			Help: "Total validation tokens minted",
		}),
		RegistrationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_registration_outcomes_total",
			Help: "Total registration validations by outcome",
		}, []string{"outcome"}),
		CaptchaRequired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentra_captcha_required_total",
			Help: "Registrations allowed only with a CAPTCHA challenge",
		}),
		RateLimitDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentra_rate_limit_denials_total",
			Help: "Attempts denied by the rate limiter",
		}),
		RateLimitEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentra_rate_limit_evicted_total",
			Help: "Expired rate limit records evicted by the cleanup worker",
		}),
		AuditDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentra_audit_events_dropped_total",
			Help: "Audit events that exhausted retries and were surfaced on the failure channel",
		}),
		SessionRecoveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_session_recoveries_total",
			Help: "Session continuity recovery attempts by result",
		}, []string{"result"}),
	}
}
