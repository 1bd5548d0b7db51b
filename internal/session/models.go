package session

// State is the watchdog's position in its lifecycle. Transitions are driven
// exclusively by events and timers inside the run loop; nothing outside the
// loop mutates state.
type State string

const (
	// StateIdle: no credential under watch. The entry state, and the
	// permanent state for client classes that never drop sessions.
	StateIdle State = "idle"
	// StateMonitoring: heartbeat active, credential refreshed near expiry.
	StateMonitoring State = "monitoring"
	// StateRecovering: session dropped unexpectedly, bounded recovery in
	// flight after a debounce delay.
	StateRecovering State = "recovering"
	// StateFailed: recovery exhausted. Terminal until the next sign-in.
	StateFailed State = "failed"
)

// StatusKind classifies signals published to the consumer.
type StatusKind string

const (
	StatusMonitoring        StatusKind = "monitoring"
	StatusRecovering        StatusKind = "recovering"
	StatusRecovered         StatusKind = "recovered"
	StatusRecoveryExhausted StatusKind = "recovery_exhausted"
	StatusIdle              StatusKind = "idle"
)

// Status is a state-change notification for the UI layer. RecoveryExhausted
// means the user must re-authenticate manually; it is a signal, not an error.
type Status struct {
	Kind   StatusKind
	Detail string
}
