package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// EventLog appends domain events to the profile_events table. It is wired
// to the event bus with SubscribeAll; failures are logged and swallowed so
// a broken audit trail never fails a command.
type EventLog struct {
	conn    *Connection
	logger  *slog.Logger
	timeout time.Duration
}

// NewEventLog creates a new EventLog.
func NewEventLog(conn *Connection, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{
		conn:    conn,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Handle implements shared.EventHandler.
func (l *EventLog) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.Append(ctx, event); err != nil {
		l.logger.Warn("event log append failed",
			"event_type", string(event.EventType()),
			"profile_id", event.AggregateID(),
			"error", err,
		)
	}
	return nil
}

// Append writes one event to the log.
func (l *EventLog) Append(ctx context.Context, event shared.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	query := `
		INSERT INTO profile_events (profile_id, event_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = l.conn.pool.Exec(ctx, query,
		event.AggregateID(),
		string(event.EventType()),
		payload,
		event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// Recent returns the newest events for a profile, newest first.
func (l *EventLog) Recent(ctx context.Context, profileID string, limit int) ([]LoggedEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT event_type, payload, occurred_at
		FROM profile_events
		WHERE profile_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := l.conn.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []LoggedEvent
	for rows.Next() {
		var ev LoggedEvent
		var payload []byte
		if err := rows.Scan(&ev.EventType, &payload, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event payload: %w", err)
		}
		ev.ProfileID = profileID
		events = append(events, ev)
	}
	return events, rows.Err()
}

// LoggedEvent is a stored event row.
type LoggedEvent struct {
	ProfileID  string                 `json:"profile_id"`
	EventType  string                 `json:"event_type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}
