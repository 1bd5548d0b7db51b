// Package seeder populates the in-memory adapters with demo identities so the
// server is explorable in development without any external oracle.
package seeder

import (
	"log/slog"

	"github.com/google/uuid"

	decisionadapters "sentra/internal/decision/adapters"
	"sentra/internal/decision/ports"
	"sentra/internal/identity"
	registrationadapters "sentra/internal/registration/adapters"
	id "sentra/pkg/domain"
)

// Stores collects the in-memory adapters the seeder fills.
type Stores struct {
	Oracle    *decisionadapters.MemoryRiskOracle
	Profiles  *decisionadapters.MemoryProfileStore
	Directory *registrationadapters.MemoryDirectory
}

// Seeder populates in-memory stores with demo data.
type Seeder struct {
	stores Stores
	logger *slog.Logger
}

func New(stores Stores, logger *slog.Logger) *Seeder {
	return &Seeder{stores: stores, logger: logger}
}

// demoUser pairs a bearer token with the identity and risk posture it maps to.
type demoUser struct {
	token    string
	email    string
	name     string
	role     string
	isAdmin  bool
	eligible bool
	report   ports.RiskReport
}

// SeedAll loads the demo identities and returns the token-to-identity map the
// development exchanger serves.
func (s *Seeder) SeedAll() map[string]*identity.Identity {
	demo := []demoUser{
		{
			token: "dev-admin-token", email: "clara.reiter@example.edu",
			name: "Clara Reiter", role: "superuser",
			isAdmin: true, eligible: true,
			report: ports.RiskReport{RiskScore: 8},
		},
		{
			token: "dev-analyst-token", email: "joao.prado@example.edu",
			name: "Joao Prado", role: "analyst",
			report: ports.RiskReport{RiskScore: 35},
		},
		{
			token: "dev-flagged-token", email: "flagged@example.edu",
			name: "Flagged Account", role: "analyst",
			report: ports.RiskReport{RiskScore: 93, IsSuspicious: true, ShouldBlock: true},
		},
	}

	identities := make(map[string]*identity.Identity, len(demo))
	for _, u := range demo {
		userID := id.UserID(uuid.New())
		identities[u.token] = &identity.Identity{
			ID:      userID,
			Email:   u.email,
			IsAdmin: u.isAdmin,
			Role:    u.role,
		}
		s.stores.Oracle.SetAdmin(userID, u.eligible)
		s.stores.Oracle.SetReport(userID, u.report)
		s.stores.Profiles.Put(ports.Profile{
			UserID:      userID,
			Email:       u.email,
			DisplayName: u.name,
			Role:        u.role,
		})
		s.logger.Info("seeded demo identity",
			slog.String("email", u.email),
			slog.String("token", u.token))
	}

	s.stores.Directory.Add("vitor.souza")

	return identities
}
