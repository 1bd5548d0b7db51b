// Package registration implements fraud prevention for account creation: a
// short-circuit pipeline of field checks, identity uniqueness, per-IP quota
// and heuristic fraud scoring, resolving to allow, challenge or deny.
package registration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	dErrors "sentra/pkg/domain-errors"
	"sentra/pkg/platform/circuit"
	"sentra/pkg/secrets"

	"sentra/internal/audit"
	"sentra/internal/platform/metrics"
	"sentra/internal/platform/privacy"
	"sentra/internal/registration/ports"
	"sentra/internal/tracer"
)

const oracleTimeout = 5 * time.Second

// Guard validates registration attempts before any account is created.
type Guard struct {
	directory ports.IdentityDirectory
	quota     ports.IPQuotaOracle
	fraud     ports.FraudOracle
	auditor   *audit.Publisher

	// fraudBreaker stops hammering a failing fraud oracle; while open the
	// pipeline falls back to the low-risk default immediately.
	fraudBreaker *circuit.Breaker

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

type GuardOption func(*Guard)

func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) { g.logger = l }
}

func WithGuardMetrics(m *metrics.Metrics) GuardOption {
	return func(g *Guard) { g.metrics = m }
}

func WithGuardTracer(t tracer.Tracer) GuardOption {
	return func(g *Guard) { g.tracer = t }
}

func NewGuard(
	directory ports.IdentityDirectory,
	quota ports.IPQuotaOracle,
	fraud ports.FraudOracle,
	auditor *audit.Publisher,
	opts ...GuardOption,
) *Guard {
	if directory == nil || quota == nil || fraud == nil || auditor == nil {
		panic("registration: missing required dependency")
	}
	g := &Guard{
		directory:    directory,
		quota:        quota,
		fraud:        fraud,
		auditor:      auditor,
		fraudBreaker: circuit.New("fraud-oracle"),
		logger:       slog.Default(),
		tracer:       tracer.Noop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs the fraud-prevention pipeline over one attempt. Checks
// short-circuit in a fixed order: required fields, identity uniqueness,
// per-IP quota, fraud scoring. The attempt is audited regardless of which
// branch fires; the raw PIN never reaches the log.
func (g *Guard) Evaluate(ctx context.Context, attempt Attempt) (*Decision, error) {
	ctx, span := g.tracer.Start(ctx, "registration.Evaluate")
	var spanErr error
	defer func() { span.End(spanErr) }()

	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	if !attempt.hasRequiredFields() {
		decision := &Decision{
			CanRegister: false,
			Message:     "institutional user, display name and PIN are required",
			Reason:      ReasonMissingFields,
		}
		g.finish(ctx, attempt, decision)
		return decision, nil
	}

	exists, err := g.directory.Exists(ctx, attempt.NormalizedUser())
	if err != nil {
		spanErr = err
		return nil, dErrors.Wrap(err, dErrors.CodeOracleFailed, "identity uniqueness check failed")
	}
	if exists {
		decision := &Decision{
			CanRegister: false,
			Message:     "an account already exists for this institutional user",
			Reason:      ReasonDuplicate,
		}
		g.finish(ctx, attempt, decision)
		return decision, nil
	}

	octx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()

	quota, err := g.quota.CheckQuota(octx, attempt.IPAddress)
	if err != nil {
		spanErr = err
		return nil, dErrors.Wrap(err, dErrors.CodeOracleFailed, "ip quota check failed")
	}

	signal := g.scoreFraud(octx, attempt)

	decision := resolve(*quota, *signal)
	if decision.CanRegister {
		hash, err := secrets.Hash(attempt.PIN)
		if err != nil {
			spanErr = err
			return nil, fmt.Errorf("hashing pin: %w", err)
		}
		decision.PinHash = hash
	}

	g.finish(ctx, attempt, decision)
	return decision, nil
}

// scoreFraud consults the fraud oracle, degrading to a low-risk signal when
// it is unavailable. Fraud scoring augments the quota decision; it must never
// make the pipeline fail outright. A breaker skips the oracle entirely after
// a run of failures so a dead scoring service costs nothing per attempt.
func (g *Guard) scoreFraud(ctx context.Context, attempt Attempt) *ports.FraudSignal {
	lowRisk := &ports.FraudSignal{RiskLevel: ports.RiskLow}

	if !g.fraudBreaker.Allow() {
		if g.metrics != nil {
			g.metrics.DegradedOracleTotal.WithLabelValues("fraud").Inc()
		}
		return lowRisk
	}

	signal, err := g.fraud.Score(ctx, attempt.IPAddress, attempt.UserAgent)
	if err != nil {
		if opened := g.fraudBreaker.RecordFailure(); opened {
			g.logger.Error("fraud oracle circuit opened",
				slog.String("breaker", g.fraudBreaker.Name()))
		}
		g.logger.Warn("fraud oracle degraded, assuming low risk",
			slog.String("ip", privacy.AnonymizeIP(attempt.IPAddress)),
			slog.Any("error", err))
		if g.metrics != nil {
			g.metrics.DegradedOracleTotal.WithLabelValues("fraud").Inc()
		}
		return lowRisk
	}
	g.fraudBreaker.RecordSuccess()
	return signal
}

// finish emits the attempt audit record and outcome metrics. Every attempt is
// logged with success=false: at validation time no account has been created
// yet, whatever the verdict.
func (g *Guard) finish(ctx context.Context, attempt Attempt, decision *Decision) {
	outcome := decision.outcome()

	severity := audit.SeverityInfo
	if !decision.CanRegister {
		severity = audit.SeverityWarning
	}
	err := g.auditor.Emit(ctx, audit.Event{
		UserID: attempt.NormalizedUser(),
		Action: audit.ActionRegistrationCheck,
		Details: map[string]string{
			"institutional_user": attempt.NormalizedUser(),
			"success":            "false",
			"outcome":            outcome,
			"reason":             decision.Reason,
			"requires_captcha":   strconv.FormatBool(decision.RequiresCaptcha),
		},
		IPAddress: attempt.IPAddress,
		Severity:  severity,
	})
	if err != nil {
		g.logger.Warn("failed to emit registration audit event",
			slog.String("user", attempt.NormalizedUser()),
			slog.Any("error", err))
	}

	if g.metrics != nil {
		g.metrics.RegistrationOutcomes.WithLabelValues(outcome).Inc()
		if decision.RequiresCaptcha {
			g.metrics.CaptchaRequired.Inc()
		}
	}
	g.logger.Info("registration attempt evaluated",
		slog.String("user", attempt.NormalizedUser()),
		slog.String("outcome", outcome),
		slog.String("reason", decision.Reason))
}
