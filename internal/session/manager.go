// Package session implements a background watchdog that keeps a long-lived
// credential alive across flaky network conditions: a periodic heartbeat
// while the session is healthy, and bounded recovery (refresh, then rehydrate
// from the local cache) when it drops unexpectedly.
package session

import (
	"context"
	"log/slog"
	"time"

	"sentra/internal/clientclass"
	"sentra/internal/platform/metrics"
	"sentra/internal/session/ports"
)

const (
	defaultHeartbeat = 4 * time.Minute
	defaultDebounce  = 2 * time.Second
	statusBuffer     = 8
)

// Manager is the session continuity state machine. All state is owned by the
// Run goroutine; callers interact only through events, so the watchdog can
// never race a foreground authentication action.
type Manager struct {
	refresher ports.CredentialRefresher
	oracle    ports.SessionOracle
	cache     ports.SessionCache
	class     clientclass.Class

	interval time.Duration
	debounce time.Duration

	events chan event
	status chan Status

	state State
	cred  *ports.Credential

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type eventKind int

const (
	eventSignIn eventKind = iota
	eventSignOut
)

type event struct {
	kind eventKind
	cred ports.Credential
}

type ManagerOption func(*Manager)

func WithHeartbeatInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.interval = d }
}

func WithRecoveryDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) { m.debounce = d }
}

func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

func WithManagerMetrics(mx *metrics.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = mx }
}

func NewManager(
	refresher ports.CredentialRefresher,
	oracle ports.SessionOracle,
	cache ports.SessionCache,
	class clientclass.Class,
	opts ...ManagerOption,
) *Manager {
	if refresher == nil || oracle == nil || cache == nil {
		panic("session: missing required dependency")
	}
	m := &Manager{
		refresher: refresher,
		oracle:    oracle,
		cache:     cache,
		class:     class,
		interval:  defaultHeartbeat,
		debounce:  defaultDebounce,
		events:    make(chan event, 16),
		status:    make(chan Status, statusBuffer),
		state:     StateIdle,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn hands a fresh credential to the watchdog.
func (m *Manager) SignIn(cred ports.Credential) {
	m.events <- event{kind: eventSignIn, cred: cred}
}

// SignOut reports an unexpected sign-out observed by the client.
func (m *Manager) SignOut() {
	m.events <- event{kind: eventSignOut}
}

// Status is the stream of state-change signals for the UI layer. Signals are
// dropped, not blocked on, when the consumer falls behind.
func (m *Manager) Status() <-chan Status {
	return m.status
}

// Run drives the state machine until ctx is cancelled. It owns all state:
// events, heartbeat ticks and the recovery debounce are serialized here.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time
	stopDebounce := func() {
		if debounce != nil {
			debounce.Stop()
			debounce, debounceC = nil, nil
		}
	}
	defer stopDebounce()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-m.events:
			switch ev.kind {
			case eventSignIn:
				stopDebounce()
				m.handleSignIn(ev.cred)
			case eventSignOut:
				if m.state != StateMonitoring {
					continue
				}
				m.transition(StateRecovering, Status{Kind: StatusRecovering})
				debounce = time.NewTimer(m.debounce)
				debounceC = debounce.C
			}

		case <-debounceC:
			stopDebounce()
			if m.state == StateRecovering {
				m.recover(ctx)
			}

		case <-ticker.C:
			if m.state != StateMonitoring {
				continue
			}
			if dropped := m.heartbeat(ctx); dropped {
				m.transition(StateRecovering, Status{Kind: StatusRecovering})
				debounce = time.NewTimer(m.debounce)
				debounceC = debounce.C
			}
		}
	}
}

// handleSignIn starts monitoring for unstable client classes. Stable classes
// stay Idle permanently: their sessions do not silently drop, so the
// heartbeat would be pure overhead.
func (m *Manager) handleSignIn(cred ports.Credential) {
	m.cred = &cred
	if !m.class.IsUnstable() {
		if m.state != StateIdle {
			m.transition(StateIdle, Status{Kind: StatusIdle})
		}
		return
	}
	m.transition(StateMonitoring, Status{Kind: StatusMonitoring})
}

// heartbeat proactively refreshes a near-expiry credential and confirms the
// session oracle still reports a live session. Returns true when the session
// is gone and recovery should begin. Oracle errors are degraded, not fatal:
// a flaky oracle must not tear down a healthy session.
func (m *Manager) heartbeat(ctx context.Context) (dropped bool) {
	if m.cred != nil && m.now().Add(m.interval).After(m.cred.ExpiresAt) {
		if fresh, err := m.refresher.Refresh(ctx); err != nil {
			m.logger.Warn("heartbeat refresh failed", slog.Any("error", err))
		} else {
			m.cred = fresh
			if err := m.cache.Store(ctx, *fresh); err != nil {
				m.logger.Warn("caching refreshed credential failed", slog.Any("error", err))
			}
		}
	}

	live, err := m.oracle.HasLiveSession(ctx)
	if err != nil {
		m.logger.Warn("session oracle degraded, keeping watch", slog.Any("error", err))
		return false
	}
	return !live
}

// recover attempts to restore the session: refresh first, then rehydrate
// from the local cache. Either success resumes monitoring; total failure is
// terminal until the next sign-in, and surfaces exactly one exhaustion
// signal.
func (m *Manager) recover(ctx context.Context) {
	fresh, err := m.refresher.Refresh(ctx)
	if err == nil {
		m.cred = fresh
		m.recovered(ctx, "refresh")
		return
	}
	m.logger.Warn("recovery refresh failed, trying cached session", slog.Any("error", err))

	if cached, err := m.cache.Load(ctx); err == nil && cached != nil && !cached.Expired(m.now()) {
		m.cred = cached
		m.recovered(ctx, "rehydrate")
		return
	}

	m.cred = nil
	if m.metrics != nil {
		m.metrics.SessionRecoveries.WithLabelValues("exhausted").Inc()
	}
	m.transition(StateFailed, Status{
		Kind:   StatusRecoveryExhausted,
		Detail: "session could not be restored, re-authentication required",
	})
}

func (m *Manager) recovered(ctx context.Context, via string) {
	if err := m.cache.Store(ctx, *m.cred); err != nil {
		m.logger.Warn("caching recovered credential failed", slog.Any("error", err))
	}
	if m.metrics != nil {
		m.metrics.SessionRecoveries.WithLabelValues(via).Inc()
	}
	m.transition(StateMonitoring, Status{Kind: StatusRecovered, Detail: via})
}

func (m *Manager) transition(next State, status Status) {
	m.logger.Info("session state change",
		slog.String("from", string(m.state)),
		slog.String("to", string(next)))
	m.state = next

	select {
	case m.status <- status:
	default:
	}
}
