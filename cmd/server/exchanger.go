package main

import (
	"context"

	"sentra/internal/identity"
	"sentra/internal/sentinel"
)

// staticExchanger serves the seeded development identities. Production
// deployments replace it with a client for the institutional identity store.
type staticExchanger struct {
	identities map[string]*identity.Identity
}

func (e *staticExchanger) Exchange(_ context.Context, token string) (*identity.Identity, error) {
	ident, ok := e.identities[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return ident, nil
}
