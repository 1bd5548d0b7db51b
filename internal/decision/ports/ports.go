// Package ports defines the capability interfaces the decision engine needs
// from external collaborators, so policy logic stays testable with
// deterministic stand-ins.
package ports

import (
	"context"

	id "sentra/pkg/domain"
)

// RiskReport is the privilege-escalation analysis for one access check.
// Ephemeral: computed fresh on every check, never persisted by the core.
type RiskReport struct {
	RiskScore    float64
	IsSuspicious bool
	ShouldBlock  bool
}

// RiskOracle answers admin-eligibility and escalation-risk questions. Both
// calls are independent remote procedures backed by the external data store;
// implementations carry their own transport timeouts.
type RiskOracle interface {
	// CheckEligibility authoritatively answers "is this identity a valid
	// admin". Failure here is fatal to the request.
	CheckEligibility(ctx context.Context, userID id.UserID) (bool, error)

	// CheckRisk returns the escalation risk report. Failure here degrades
	// gracefully to a zero-value report.
	CheckRisk(ctx context.Context, userID id.UserID) (*RiskReport, error)
}

// Profile is the user profile returned on a granted dashboard check.
type Profile struct {
	UserID      id.UserID
	Email       string
	DisplayName string
	Role        string
}

// ProfileStore fetches user profiles for the dashboard surface.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID id.UserID) (*Profile, error)
}
