// Package adapters provides in-memory implementations of the registration
// oracles, suitable for local development and the seed environment.
package adapters

import (
	"context"
	"strings"
	"sync"
	"time"

	"sentra/internal/registration/ports"
)

// MemoryDirectory is a thread-safe in-memory identity directory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

func NewMemoryDirectory(seed ...string) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]struct{})}
	for _, u := range seed {
		d.Add(u)
	}
	return d
}

func (d *MemoryDirectory) Add(institutionalUser string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[strings.ToLower(strings.TrimSpace(institutionalUser))] = struct{}{}
}

func (d *MemoryDirectory) Exists(_ context.Context, institutionalUser string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[institutionalUser]
	return ok, nil
}

// MemoryQuotaOracle tracks per-IP registration counts in memory and mirrors
// the external quota service's contract: each check increments the count as a
// side effect, and IPs over the cap or explicitly blocked are reported as
// such.
type MemoryQuotaOracle struct {
	mu      sync.Mutex
	maxPer  int
	counts  map[string]int
	blocked map[string]time.Time
}

func NewMemoryQuotaOracle(maxPerIP int) *MemoryQuotaOracle {
	return &MemoryQuotaOracle{
		maxPer:  maxPerIP,
		counts:  make(map[string]int),
		blocked: make(map[string]time.Time),
	}
}

// Block marks an IP as blocked until the given time.
func (o *MemoryQuotaOracle) Block(ip string, until time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blocked[ip] = until
}

func (o *MemoryQuotaOracle) CheckQuota(_ context.Context, ipAddress string) (*ports.IPQuota, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if until, ok := o.blocked[ipAddress]; ok {
		if time.Now().Before(until) {
			u := until
			return &ports.IPQuota{IsBlocked: true, BlockedUntil: &u}, nil
		}
		delete(o.blocked, ipAddress)
	}

	count := o.counts[ipAddress]
	if count >= o.maxPer {
		return &ports.IPQuota{RegistrationCount: count, Reason: ports.ReasonLimitExceeded}, nil
	}
	o.counts[ipAddress] = count + 1
	return &ports.IPQuota{CanRegister: true, RegistrationCount: count}, nil
}

// MemoryFraudOracle returns a fixed signal per IP, defaulting to low risk.
type MemoryFraudOracle struct {
	mu      sync.RWMutex
	signals map[string]ports.FraudSignal
}

func NewMemoryFraudOracle() *MemoryFraudOracle {
	return &MemoryFraudOracle{signals: make(map[string]ports.FraudSignal)}
}

func (o *MemoryFraudOracle) SetSignal(ip string, signal ports.FraudSignal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signals[ip] = signal
}

func (o *MemoryFraudOracle) Score(_ context.Context, ipAddress, _ string) (*ports.FraudSignal, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if s, ok := o.signals[ipAddress]; ok {
		return &s, nil
	}
	return &ports.FraudSignal{RiskLevel: ports.RiskLow}, nil
}
