package registration

import (
	"strings"
	"time"
)

// Attempt is a candidate registration. Transient input: never stored verbatim
// beyond the audit log, and the raw PIN never leaves this package.
type Attempt struct {
	InstitutionalUser string
	DisplayName       string
	PIN               string
	IPAddress         string
	UserAgent         string
	Timestamp         time.Time
}

// NormalizedUser returns the identity key used for uniqueness checks:
// whitespace-trimmed and case-insensitive.
func (a Attempt) NormalizedUser() string {
	return strings.ToLower(strings.TrimSpace(a.InstitutionalUser))
}

// hasRequiredFields reports whether all three identity fields are present.
func (a Attempt) hasRequiredFields() bool {
	return strings.TrimSpace(a.InstitutionalUser) != "" &&
		strings.TrimSpace(a.DisplayName) != "" &&
		strings.TrimSpace(a.PIN) != ""
}

// Reason codes surfaced to the caller alongside a decision.
const (
	ReasonMissingFields = "missing_required_fields"
	ReasonDuplicate     = "duplicate_identity"
	ReasonIPBlocked     = "ip_blocked"
	ReasonLimitExceeded = "limit_exceeded"
	ReasonHighRisk      = "high_risk"
	ReasonChallenge     = "captcha_required"
)

// Decision is the outcome of a registration validation. CAPTCHA gating is the
// middle ground: the attempt may proceed, but only with additional proof of
// humanity.
type Decision struct {
	CanRegister     bool
	RequiresCaptcha bool
	Message         string
	Reason          string
	BlockedUntil    *time.Time

	// PinHash carries the bcrypt hash of the candidate PIN for downstream
	// account creation. The raw PIN is never persisted or logged.
	PinHash string
}

// outcome labels a decision for metrics and audit details.
func (d *Decision) outcome() string {
	switch {
	case !d.CanRegister:
		return "deny"
	case d.RequiresCaptcha:
		return "challenge"
	default:
		return "allow"
	}
}
