package registration

import (
	"fmt"

	"sentra/internal/registration/ports"
)

// maxRegistrationsPerIP mirrors the quota oracle's cap; used only in the
// denial message.
const maxRegistrationsPerIP = 3

// resolve applies the resolution policy to the quota and fraud signals, in
// strict priority: blocked, then quota exhaustion, then the challenge band
// (repeat IP or medium risk), then high risk, then default allow. High risk
// is deliberately checked after the challenge band, so a repeat IP with a
// high score is challenged rather than denied, while a first-time IP with a
// high score is denied.
func resolve(quota ports.IPQuota, fraud ports.FraudSignal) *Decision {
	if quota.IsBlocked {
		return &Decision{
			CanRegister:  false,
			Message:      "this network address is temporarily blocked from registering",
			Reason:       ReasonIPBlocked,
			BlockedUntil: quota.BlockedUntil,
		}
	}

	if quota.Reason == ports.ReasonLimitExceeded {
		return &Decision{
			CanRegister: false,
			Message:     fmt.Sprintf("at most %d registrations are allowed per network address", maxRegistrationsPerIP),
			Reason:      ReasonLimitExceeded,
		}
	}

	if quota.RegistrationCount >= 1 || fraud.RiskLevel == ports.RiskMedium {
		return &Decision{
			CanRegister:     true,
			RequiresCaptcha: true,
			Message:         "complete the verification challenge to continue",
			Reason:          ReasonChallenge,
		}
	}

	if fraud.RiskLevel == ports.RiskHigh {
		return &Decision{
			CanRegister: false,
			Message:     "registration denied due to suspicious activity",
			Reason:      ReasonHighRisk,
		}
	}

	return &Decision{
		CanRegister: true,
		Message:     "registration can proceed",
	}
}
