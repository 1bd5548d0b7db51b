package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"sentra/internal/platform/database"
)

// PostgresStore implements Store over the audit_events table. Append-only,
// like the interface demands: there is no update or delete path.
type PostgresStore struct {
	db database.PgxPool
}

// NewPostgresStore creates a Postgres-backed audit store.
func NewPostgresStore(db database.PgxPool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	const query = `
		INSERT INTO audit_events (id, ts, user_id, action, details, ip_address, severity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}

	_, err = s.db.Exec(ctx, query,
		event.ID,
		event.Timestamp,
		event.UserID,
		string(event.Action),
		details,
		event.IPAddress,
		string(event.Severity),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	const query = `
		SELECT id, ts, user_id, action, details, ip_address, severity
		FROM audit_events
		WHERE user_id = $1
		ORDER BY ts
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev       Event
			action   string
			details  []byte
			severity string
		)
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.UserID, &action, &details, &ev.IPAddress, &severity); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Action = Action(action)
		ev.Severity = Severity(severity)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &ev.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
