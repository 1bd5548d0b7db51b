// Package identity resolves bearer credentials to identities via the external
// identity store.
package identity

import (
	"context"

	id "sentra/pkg/domain"
)

// Identity is the resolved caller. Owned by the external identity store; the
// core only reads it, never mutates it.
type Identity struct {
	ID      id.UserID
	Email   string
	IsAdmin bool // externally asserted flag; eligibility is re-checked by the risk oracle
	Role    string
}

// TokenExchanger exchanges a raw bearer token for an identity.
// Implementations wrap the external identity store and carry their own
// transport-level timeouts. Unknown credentials are reported as
// sentinel.ErrNotFound and expired ones as sentinel.ErrExpired; any other
// error is treated as transient.
type TokenExchanger interface {
	Exchange(ctx context.Context, token string) (*Identity, error)
}
