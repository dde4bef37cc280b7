package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/application/saga"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATE ACHIEVEMENTS COMMAND
// Re-runs the badge catalog against the profile's current state. Normally
// the reward flow does this after every action; the explicit command covers
// catalog additions and migrated profiles.
// ══════════════════════════════════════════════════════════════════════════════

// EvaluateAchievementsCommand triggers a full catalog pass.
type EvaluateAchievementsCommand struct {
	ProfileID string
	Timestamp time.Time
}

// Validate validates the command.
func (c EvaluateAchievementsCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("evaluate_achievements: profile_id is required")
	}
	return nil
}

// EvaluateAchievementsResult contains the newly granted badges.
type EvaluateAchievementsResult struct {
	// NewBadges lists badge IDs granted by this pass.
	NewBadges []string

	// XPAwarded is the badge reward XP applied.
	XPAwarded int

	// NewLevel is the level after the pass.
	NewLevel int

	// Events contains the granted and progression events.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EvaluateAchievementsHandler handles the EvaluateAchievementsCommand.
type EvaluateAchievementsHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewEvaluateAchievementsHandler creates a new EvaluateAchievementsHandler.
func NewEvaluateAchievementsHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *EvaluateAchievementsHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &EvaluateAchievementsHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// Handle executes the evaluate achievements command.
func (h *EvaluateAchievementsHandler) Handle(ctx context.Context, cmd EvaluateAchievementsCommand) (*EvaluateAchievementsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate_achievements: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{SkipBaseXP: true}, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate_achievements: %w", err)
	}

	if reward.HasGrants() {
		if err := h.store.save(ctx, p); err != nil {
			return nil, fmt.Errorf("evaluate_achievements: %w", err)
		}
	}

	result := &EvaluateAchievementsResult{
		XPAwarded: reward.XPAwarded,
		NewLevel:  reward.NewLevel,
		Events:    reward.Events,
	}
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}
	return result, nil
}
