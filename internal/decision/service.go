// Package decision combines identity verification and risk oracle outputs
// into a final admin-access decision, with an audit record on every branch.
package decision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sentra/internal/audit"
	"sentra/internal/decision/ports"
	"sentra/internal/identity"
	"sentra/internal/platform/metrics"
	"sentra/internal/ratelimit"
	"sentra/internal/tracer"
	id "sentra/pkg/domain"
	dErrors "sentra/pkg/domain-errors"
)

const (
	// oracleTimeout caps the combined eligibility + risk fetch.
	oracleTimeout = 5 * time.Second

	// Per-user throttle on access checks.
	accessCheckLimit  = 10
	accessCheckWindow = time.Minute
)

// AuditPublisher records decision-point events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TokenMinter mints the short-lived validation token on a granted decision.
type TokenMinter interface {
	Mint(userID id.UserID, now time.Time) (string, error)
}

// Service evaluates risk oracle outputs against the access policy. The rules
// stay centralized here so they are testable without any external store.
type Service struct {
	oracle   ports.RiskOracle
	profiles ports.ProfileStore
	minter   TokenMinter
	auditor  AuditPublisher
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTracer sets the tracer for pipeline spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithRateLimiter throttles per-user access checks.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// New creates a decision service with required dependencies.
// Panics if required dependencies are nil - fail fast at startup.
// The auditor is required: every decision branch must leave an audit record.
func New(
	oracle ports.RiskOracle,
	profiles ports.ProfileStore,
	minter TokenMinter,
	auditor AuditPublisher,
	opts ...Option,
) *Service {
	if oracle == nil {
		panic("decision.New: risk oracle is required")
	}
	if profiles == nil {
		panic("decision.New: profile store is required")
	}
	if minter == nil {
		panic("decision.New: token minter is required")
	}
	if auditor == nil {
		panic("decision.New: auditor is required for the audit trail")
	}

	s := &Service{
		oracle:   oracle,
		profiles: profiles,
		minter:   minter,
		auditor:  auditor,
		tracer:   tracer.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate performs a complete admin-access evaluation for a verified
// identity. Observability precedes judgment: the check is audited before any
// oracle call so even failed paths are traceable.
func (s *Service) Evaluate(ctx context.Context, ident *identity.Identity, ipAddress string) (*AccessDecision, error) {
	// Single authoritative timestamp for the entire evaluation.
	evalTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.AccessCheckLatency.Observe(time.Since(evalTime).Seconds())
		}
	}()

	ctx, span := s.tracer.Start(ctx, "decision.evaluate",
		tracer.String("user_id", ident.ID.String()),
	)
	var spanErr error
	defer func() { span.End(spanErr) }()

	s.emitAudit(ctx, audit.Event{
		Timestamp: evalTime,
		UserID:    ident.ID.String(),
		Action:    audit.ActionAdminAccessCheck,
		IPAddress: ipAddress,
		Severity:  audit.SeverityInfo,
	})

	if err := s.throttle(ctx, ident, ipAddress, evalTime); err != nil {
		spanErr = err
		return nil, err
	}

	eligible, report, err := s.gatherSignals(ctx, ident.ID)
	if err != nil {
		// Critical-path oracle failure: audit the error branch and surface it
		// as distinct from a legitimate deny.
		s.emitAudit(ctx, audit.Event{
			Timestamp: evalTime,
			UserID:    ident.ID.String(),
			Action:    audit.ActionAdminAccessDenied,
			Details:   map[string]string{"reason": "eligibility_oracle_error", "error": err.Error()},
			IPAddress: ipAddress,
			Severity:  audit.SeverityWarning,
		})
		spanErr = err
		return nil, dErrors.Wrap(err, dErrors.CodeOracleFailed, "admin eligibility check failed")
	}

	outcome := resolve(eligible, report)
	dec := &AccessDecision{
		Outcome:      outcome,
		IsValid:      outcome == OutcomeGranted,
		UserID:       ident.ID,
		RiskScore:    report.RiskScore,
		IsSuspicious: report.IsSuspicious,
		Timestamp:    evalTime,
	}

	if dec.IsValid {
		token, err := s.minter.Mint(ident.ID, evalTime)
		if err != nil {
			spanErr = err
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not mint validation token")
		}
		dec.ValidationToken = token
		if s.metrics != nil {
			s.metrics.ValidationTokens.Inc()
		}
	}

	s.emitTerminalAudit(ctx, dec, ipAddress)

	if s.metrics != nil {
		s.metrics.AccessDecisions.WithLabelValues(string(outcome)).Inc()
	}
	span.SetAttributes(tracer.String("outcome", string(outcome)))

	return dec, nil
}

// gatherSignals fetches eligibility and risk in parallel from a single
// snapshot. Eligibility failure is fatal; risk failure degrades to the safe
// zero-value report so an oracle outage alone can neither over-grant nor
// over-deny.
func (s *Service) gatherSignals(ctx context.Context, userID id.UserID) (bool, ports.RiskReport, error) {
	ctx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var eligible bool
	report := ports.RiskReport{}

	g.Go(func() error {
		ok, err := s.oracle.CheckEligibility(gctx, userID)
		if err != nil {
			return err
		}
		eligible = ok
		return nil
	})

	g.Go(func() error {
		r, err := s.oracle.CheckRisk(gctx, userID)
		if err != nil {
			// Non-critical: absorb and fall back to the safe default.
			if s.logger != nil {
				s.logger.WarnContext(gctx, "risk oracle degraded, using safe default",
					"user_id", userID,
					"error", err,
				)
			}
			if s.metrics != nil {
				s.metrics.DegradedOracleTotal.WithLabelValues("risk").Inc()
			}
			return nil
		}
		if r != nil {
			report = *r
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return false, ports.RiskReport{}, err
	}
	return eligible, report, nil
}

func (s *Service) throttle(ctx context.Context, ident *identity.Identity, ipAddress string, evalTime time.Time) error {
	if s.limiter == nil {
		return nil
	}
	key := ratelimit.Key("admin_access", ident.ID.String())
	allowed, _ := s.limiter.Allow(ctx, key, accessCheckLimit, accessCheckWindow)
	if allowed {
		return nil
	}
	s.emitAudit(ctx, audit.Event{
		Timestamp: evalTime,
		UserID:    ident.ID.String(),
		Action:    audit.ActionAdminAccessDenied,
		Details:   map[string]string{"reason": "rate_limited"},
		IPAddress: ipAddress,
		Severity:  audit.SeverityWarning,
	})
	return dErrors.New(dErrors.CodeRateLimited, "too many access checks")
}

// emitTerminalAudit writes exactly one terminal record reflecting the final
// decision for the branch that fired.
func (s *Service) emitTerminalAudit(ctx context.Context, dec *AccessDecision, ipAddress string) {
	details := map[string]string{
		"risk_score": fmt.Sprintf("%.2f", dec.RiskScore),
		"suspicious": fmt.Sprintf("%t", dec.IsSuspicious),
	}

	event := audit.Event{
		Timestamp: dec.Timestamp,
		UserID:    dec.UserID.String(),
		Details:   details,
		IPAddress: ipAddress,
	}

	switch dec.Outcome {
	case OutcomeGranted:
		event.Action = audit.ActionAdminAccessGranted
		event.Severity = audit.SeverityInfo
	case OutcomeBlocked:
		event.Action = audit.ActionAdminAccessBlocked
		event.Severity = audit.SeverityCritical
	default:
		event.Action = audit.ActionAdminAccessDenied
		event.Severity = audit.SeverityWarning
	}

	s.emitAudit(ctx, event)
}

// emitAudit is best-effort: audit-sink failures are the publisher's problem to
// surface, not a reason to fail the decision.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit decision audit event",
			"error", err,
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
}

// CheckDashboard answers the dashboard access check: eligibility gates entry,
// and the profile is fetched only on a grant.
func (s *Service) CheckDashboard(ctx context.Context, ident *identity.Identity, ipAddress string) (*DashboardDecision, error) {
	now := time.Now()

	eligible, err := s.oracle.CheckEligibility(ctx, ident.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeOracleFailed, "admin eligibility check failed")
	}

	dec := &DashboardDecision{CanAccess: eligible}
	if !eligible {
		dec.Message = "admin access required"
		s.emitAudit(ctx, audit.Event{
			Timestamp: now,
			UserID:    ident.ID.String(),
			Action:    audit.ActionDashboardAccess,
			Details:   map[string]string{"granted": "false"},
			IPAddress: ipAddress,
			Severity:  audit.SeverityWarning,
		})
		return dec, nil
	}

	profile, err := s.profiles.GetProfile(ctx, ident.ID)
	if err != nil {
		// Access stands; the profile is presentation data.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "profile fetch failed on granted dashboard access",
				"user_id", ident.ID,
				"error", err,
			)
		}
	} else {
		dec.Profile = profile
	}
	dec.Message = "access granted"

	s.emitAudit(ctx, audit.Event{
		Timestamp: now,
		UserID:    ident.ID.String(),
		Action:    audit.ActionDashboardAccess,
		Details:   map[string]string{"granted": "true"},
		IPAddress: ipAddress,
		Severity:  audit.SeverityInfo,
	})

	return dec, nil
}
