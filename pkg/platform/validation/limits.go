// Package validation defines request size limits enforced at the transport
// boundary.
package validation

import (
	"fmt"

	dErrors "sentra/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// String length limits
const (
	// MaxInstitutionalUserLength bounds the institutional identifier.
	MaxInstitutionalUserLength = 100

	// MaxDisplayNameLength bounds the human-readable name.
	MaxDisplayNameLength = 200

	// MaxPINLength bounds the candidate PIN before hashing.
	MaxPINLength = 64

	// MaxUserAgentLength bounds the self-reported client string.
	MaxUserAgentLength = 512
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
