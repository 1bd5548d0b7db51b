// Package secrets hashes registration PINs for storage. Raw PINs must never
// leave this package in any log, audit record, or error message.
package secrets

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "sentra/pkg/domain-errors"
)

// Hash derives a bcrypt hash of the PIN for storage.
func Hash(pin string) (string, error) {
	if pin == "" {
		return "", dErrors.New(dErrors.CodeValidation, "pin cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "pin is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash pin")
	}
	return string(hashed), nil
}

// Verify reports whether pin matches a stored hash.
func Verify(pin, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "pin does not match")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify pin")
	}
	return nil
}
