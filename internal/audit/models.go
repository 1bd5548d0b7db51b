package audit

import "time"

// Severity grades audit events for downstream alerting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is emitted from domain logic to capture key decision points. Keep it
// transport-agnostic so stores and sinks can fan out. Append-only: events are
// never updated or deleted once emitted.
type Event struct {
	ID        string
	Timestamp time.Time
	UserID    string
	Action    Action
	Details   map[string]string
	IPAddress string
	Severity  Severity
}

// Action names the decision point that produced an event.
type Action string

const (
	ActionAdminAccessCheck   Action = "admin_access_check"
	ActionAdminAccessGranted Action = "admin_access_granted"
	ActionAdminAccessDenied  Action = "admin_access_denied"
	ActionAdminAccessBlocked Action = "admin_access_blocked"
	ActionRegistrationCheck  Action = "registration_check"
	ActionDashboardAccess    Action = "dashboard_access"
)
