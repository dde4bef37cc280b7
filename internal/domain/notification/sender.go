package notification

import (
	"context"
	"log/slog"
)

// Sender delivers a decided message to the user. Implementations are
// outward-facing collaborators (toast surface, webhook, log).
type Sender interface {
	Send(ctx context.Context, profileID string, msg Message) error
}

// NopSender discards every message. Used when delivery is disabled.
type NopSender struct{}

// Send implements Sender.
func (NopSender) Send(context.Context, string, Message) error { return nil }

// LogSender writes messages to the structured log. The default delivery
// surface for headless deployments; a UI replaces it with its own Sender.
type LogSender struct {
	Logger *slog.Logger
}

// Send implements Sender.
func (s LogSender) Send(_ context.Context, profileID string, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		"profile_id", profileID,
		"title", msg.Title,
		"body", msg.Body,
		"urgency", string(msg.Urgency),
		"sound", msg.Sound,
	)
	return nil
}
