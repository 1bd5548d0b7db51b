// Package ports defines the capability interfaces the registration guard
// needs from external collaborators.
package ports

import (
	"context"
	"time"
)

// IdentityDirectory answers uniqueness questions against existing identities.
// Lookups are case-insensitive on the guard side; implementations receive the
// already-normalized identifier.
type IdentityDirectory interface {
	Exists(ctx context.Context, institutionalUser string) (bool, error)
}

// IPQuota is the per-IP reputation snapshot returned by the quota oracle.
// Owned and mutated by the external store as a side effect of each check; the
// core only consults it.
type IPQuota struct {
	CanRegister       bool
	IsBlocked         bool
	RegistrationCount int
	Reason            string
	BlockedUntil      *time.Time
}

// ReasonLimitExceeded is the quota oracle's code for an IP over its cap.
const ReasonLimitExceeded = "limit_exceeded"

// IPQuotaOracle consults the external per-IP registration quota.
type IPQuotaOracle interface {
	CheckQuota(ctx context.Context, ipAddress string) (*IPQuota, error)
}

// RiskLevel grades the fraud-pattern signal.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// FraudSignal is the per-IP heuristic abuse signal.
type FraudSignal struct {
	RiskLevel  RiskLevel
	FraudScore float64
}

// FraudOracle scores likely abusive registration behavior. Failures degrade
// to a low-risk signal; fraud scoring augments, it does not gate.
type FraudOracle interface {
	Score(ctx context.Context, ipAddress, userAgent string) (*FraudSignal, error)
}
