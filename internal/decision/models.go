package decision

import (
	"time"

	"sentra/internal/decision/ports"
	id "sentra/pkg/domain"
)

// Outcome enumerates the possible admin-access decisions.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
	OutcomeBlocked Outcome = "blocked"
)

// AccessDecision is created once per admin-access request and is immutable
// after construction: it is computed atomically from a single risk snapshot
// and never updated in place. ValidationToken is present iff IsValid.
type AccessDecision struct {
	Outcome         Outcome
	IsValid         bool
	UserID          id.UserID
	RiskScore       float64
	IsSuspicious    bool
	ValidationToken string
	Timestamp       time.Time
}

// Blocked reports whether the risk engine flagged suspicious non-admin
// activity.
func (d *AccessDecision) Blocked() bool { return d.Outcome == OutcomeBlocked }

// resolve applies the decision rule to a single risk snapshot. First match
// wins: a non-eligible identity with a block flag is blocked; otherwise
// validity tracks eligibility alone. Confirmed admins are never blocked by
// risk score, however high.
func resolve(eligible bool, report ports.RiskReport) Outcome {
	if !eligible && report.ShouldBlock {
		return OutcomeBlocked
	}
	if eligible {
		return OutcomeGranted
	}
	return OutcomeDenied
}

// DashboardDecision is the outcome of a dashboard access check. Profile is
// populated only when access is granted.
type DashboardDecision struct {
	CanAccess bool
	Message   string
	Profile   *ports.Profile
}
