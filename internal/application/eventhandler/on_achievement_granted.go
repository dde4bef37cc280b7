package eventhandler

import (
	"context"
	"log/slog"

	"github.com/better-me-app/better-me-core/internal/domain/notification"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ACHIEVEMENT GRANTED HANDLER
// Logs the grant and decides whether the profile wants to hear about it.
// Profiles on the minimal notification level still get a silent record in
// the message (the badge is visible in the UI either way).
// ═══════════════════════════════════════════════════════════════════════════

// OnAchievementGrantedHandler handles achievement.granted events.
type OnAchievementGrantedHandler struct {
	repo   profile.Repository
	sender notification.Sender
	logger *slog.Logger
}

// NewOnAchievementGrantedHandler creates a new OnAchievementGrantedHandler.
func NewOnAchievementGrantedHandler(repo profile.Repository, sender notification.Sender, logger *slog.Logger) *OnAchievementGrantedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if sender == nil {
		sender = notification.NopSender{}
	}
	return &OnAchievementGrantedHandler{
		repo:   repo,
		sender: sender,
		logger: logger.With("handler", "on_achievement_granted"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnAchievementGrantedHandler) Handle(event shared.Event) error {
	e, ok := event.(shared.AchievementGrantedEvent)
	if !ok {
		return nil
	}

	h.logger.Info("achievement granted",
		slog.String("profile_id", e.AggregateID()),
		slog.String("badge_id", e.BadgeID),
		slog.Int("xp_reward", e.XPReward))

	ctx := context.Background()

	snap, err := h.repo.GetByID(ctx, e.AggregateID())
	if err != nil {
		h.logger.Error("load profile for notification", slog.String("error", err.Error()))
		return err
	}

	if !snap.Settings.Gamification.AchievementNotifications {
		return nil
	}

	policy := notification.NewPolicy(snap.Settings.NotificationLevel, snap.Settings.SoundEnabled, nil)
	msg := policy.Decide(e)
	if msg == nil {
		return nil
	}

	if err := h.sender.Send(ctx, e.AggregateID(), *msg); err != nil {
		h.logger.Error("send achievement notification", slog.String("error", err.Error()))
		return err
	}
	return nil
}
