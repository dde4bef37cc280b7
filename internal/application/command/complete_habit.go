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
// COMPLETE HABIT COMMAND
// The central user action: marks a habit done for a calendar day, updates
// the streak, then runs the reward flow (XP, level, achievements). A repeat
// completion on the same day is a recognized no-op: no entry, no XP, no
// streak change.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteHabitCommand contains the data to complete a habit.
type CompleteHabitCommand struct {
	// ProfileID owns the habit.
	ProfileID string

	// HabitID is the habit being completed.
	HabitID string

	// Value is the amount completed (defaults to the habit's target).
	Value float64

	// Notes is optional free text on the completion entry.
	Notes string

	// Timestamp is when the completion happened (defaults to now if zero).
	// Its calendar day in UTC decides idempotence and streak continuity.
	Timestamp time.Time
}

// Validate validates the command.
func (c CompleteHabitCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("complete_habit: profile_id is required")
	}
	if c.HabitID == "" {
		return errors.New("complete_habit: habit_id is required")
	}
	if c.Value < 0 {
		return errors.New("complete_habit: value cannot be negative")
	}
	return nil
}

// CompleteHabitResult contains the result of completing a habit.
type CompleteHabitResult struct {
	// Completed is false for a same-day repeat.
	Completed bool

	// HabitID echoes the habit.
	HabitID string

	// NewStreak is the streak after this completion.
	NewStreak int

	// StreakBroken indicates the previous streak did not survive the gap.
	StreakBroken bool

	// PreviousStreak is the streak that was lost (when broken).
	PreviousStreak int

	// XPAwarded is the total XP applied, achievements included.
	XPAwarded int

	// LeveledUp indicates a level threshold was crossed.
	LeveledUp bool

	// NewLevel is the level after the reward flow.
	NewLevel int

	// NewBadges lists badge IDs earned by this completion.
	NewBadges []string

	// Events contains every domain event the action produced.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CompleteHabitHandler handles the CompleteHabitCommand.
type CompleteHabitHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewCompleteHabitHandler creates a new CompleteHabitHandler.
func NewCompleteHabitHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *CompleteHabitHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CompleteHabitHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// Handle executes the complete habit command.
func (h *CompleteHabitHandler) Handle(ctx context.Context, cmd CompleteHabitCommand) (*CompleteHabitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_habit: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	completion, err := p.Habits.Complete(cmd.HabitID, cmd.Value, cmd.Notes, now)
	if err != nil {
		return nil, err
	}

	result := &CompleteHabitResult{
		Completed:      completion.Completed,
		HabitID:        cmd.HabitID,
		NewStreak:      completion.NewStreak,
		StreakBroken:   completion.StreakBroken,
		PreviousStreak: completion.PreviousStreak,
		NewLevel:       p.Stats.Level.Int(),
	}

	// Same-day repeat: nothing changed, nothing to persist or reward.
	if !completion.Completed {
		return result, nil
	}

	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{
		Source:        saga.SourceHabitCompletion,
		TriggerEvents: completion.Events,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("complete_habit: %w", err)
	}

	result.XPAwarded = reward.XPAwarded
	result.LeveledUp = reward.LeveledUp
	result.NewLevel = reward.NewLevel
	result.Events = reward.Events
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}

	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("complete_habit: %w", err)
	}

	return result, nil
}
