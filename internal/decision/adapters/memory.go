// Package adapters provides in-memory implementations of the decision ports
// for local development and tests. Production deployments swap in clients for
// the external data-store procedures.
package adapters

import (
	"context"
	"sync"

	"sentra/internal/decision/ports"
	"sentra/internal/sentinel"
	id "sentra/pkg/domain"
)

// MemoryRiskOracle serves eligibility flags and risk reports from in-memory
// tables.
type MemoryRiskOracle struct {
	mu       sync.RWMutex
	admins   map[id.UserID]bool
	reports  map[id.UserID]ports.RiskReport
}

func NewMemoryRiskOracle() *MemoryRiskOracle {
	return &MemoryRiskOracle{
		admins:  make(map[id.UserID]bool),
		reports: make(map[id.UserID]ports.RiskReport),
	}
}

// SetAdmin marks a user as an eligible admin.
func (o *MemoryRiskOracle) SetAdmin(userID id.UserID, eligible bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.admins[userID] = eligible
}

// SetReport installs a risk report for a user.
func (o *MemoryRiskOracle) SetReport(userID id.UserID, report ports.RiskReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports[userID] = report
}

func (o *MemoryRiskOracle) CheckEligibility(_ context.Context, userID id.UserID) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.admins[userID], nil
}

func (o *MemoryRiskOracle) CheckRisk(_ context.Context, userID id.UserID) (*ports.RiskReport, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	report := o.reports[userID]
	return &report, nil
}

// MemoryProfileStore serves profiles from an in-memory table.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]ports.Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[id.UserID]ports.Profile)}
}

// Put stores a profile.
func (s *MemoryProfileStore) Put(profile ports.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

func (s *MemoryProfileStore) GetProfile(_ context.Context, userID id.UserID) (*ports.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &profile, nil
}
