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
// ADD XP COMMAND
// Manual XP correction. The amount is applied verbatim — the multiplier only
// scales earned rewards, never corrections — and negative amounts floor the
// total at zero.
// ══════════════════════════════════════════════════════════════════════════════

// AddXPCommand contains the data for a manual XP adjustment.
type AddXPCommand struct {
	// ProfileID is the profile to adjust.
	ProfileID string

	// Amount is the signed XP delta.
	Amount int

	// Reason documents the correction. Carried on the XPGainedEvent source.
	Reason string

	// Timestamp is when the adjustment happened (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c AddXPCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("add_xp: profile_id is required")
	}
	if c.Amount == 0 {
		return errors.New("add_xp: amount cannot be zero")
	}
	return nil
}

// AddXPResult contains the result of the adjustment.
type AddXPResult struct {
	// XPApplied is the delta actually applied after flooring at zero, plus
	// any badge XP the adjustment happened to unlock.
	XPApplied int

	// NewTotalXP is the profile's XP total after the adjustment.
	NewTotalXP int

	// LeveledUp indicates a level threshold was crossed.
	LeveledUp bool

	// NewLevel is the level after the adjustment.
	NewLevel int

	// NewBadges lists badge IDs the adjustment happened to satisfy.
	NewBadges []string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AddXPHandler handles the AddXPCommand.
type AddXPHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewAddXPHandler creates a new AddXPHandler.
func NewAddXPHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *AddXPHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &AddXPHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// Handle executes the add XP command.
func (h *AddXPHandler) Handle(ctx context.Context, cmd AddXPCommand) (*AddXPResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_xp: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{
		Source:       saga.SourceManual,
		ManualAmount: cmd.Amount,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("add_xp: %w", err)
	}

	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("add_xp: %w", err)
	}

	result := &AddXPResult{
		XPApplied:  reward.XPAwarded,
		NewTotalXP: reward.NewTotalXP,
		LeveledUp:  reward.LeveledUp,
		NewLevel:   reward.NewLevel,
	}
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}
	return result, nil
}
