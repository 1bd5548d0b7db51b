// Package ports defines the capability interfaces the session continuity
// manager needs from the surrounding client.
package ports

import (
	"context"
	"time"
)

// Credential is the long-lived session material the watchdog keeps alive.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the credential is past its expiry at the given
// instant.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// CredentialRefresher exchanges the current credential for a fresh one.
type CredentialRefresher interface {
	Refresh(ctx context.Context) (*Credential, error)
}

// SessionOracle reports whether the backing session is still live. A false
// answer means the session was dropped out from under us.
type SessionOracle interface {
	HasLiveSession(ctx context.Context) (bool, error)
}

// SessionCache holds locally persisted session material used as the last
// resort during recovery.
type SessionCache interface {
	Load(ctx context.Context) (*Credential, error)
	Store(ctx context.Context, cred Credential) error
}
