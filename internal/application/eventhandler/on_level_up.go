// Package eventhandler contains domain event handlers.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/better-me-app/better-me-core/internal/domain/notification"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON LEVEL UP HANDLER
// Reacts to a crossed level threshold: logs the progression and, when the
// profile's settings allow it, hands a celebration message to the sender.
// The engine itself never formats or delivers anything.
// ═══════════════════════════════════════════════════════════════════════════

// OnLevelUpHandler handles progression.level_up events.
type OnLevelUpHandler struct {
	repo   profile.Repository
	sender notification.Sender
	logger *slog.Logger
}

// NewOnLevelUpHandler creates a new OnLevelUpHandler.
func NewOnLevelUpHandler(repo profile.Repository, sender notification.Sender, logger *slog.Logger) *OnLevelUpHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if sender == nil {
		sender = notification.NopSender{}
	}
	return &OnLevelUpHandler{
		repo:   repo,
		sender: sender,
		logger: logger.With("handler", "on_level_up"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnLevelUpHandler) Handle(event shared.Event) error {
	e, ok := event.(shared.LevelUpEvent)
	if !ok {
		return nil
	}

	h.logger.Info("level up",
		slog.String("profile_id", e.AggregateID()),
		slog.Int("old_level", e.OldLevel),
		slog.Int("new_level", e.NewLevel))

	ctx := context.Background()

	snap, err := h.repo.GetByID(ctx, e.AggregateID())
	if err != nil {
		h.logger.Error("load profile for notification", slog.String("error", err.Error()))
		return err
	}

	policy := notification.NewPolicy(snap.Settings.NotificationLevel, snap.Settings.SoundEnabled, nil)
	msg := policy.Decide(e)
	if msg == nil {
		return nil
	}

	if err := h.sender.Send(ctx, e.AggregateID(), *msg); err != nil {
		h.logger.Error("send level up notification", slog.String("error", err.Error()))
		return err
	}
	return nil
}
