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
// RECORD GOAL PROGRESS COMMAND
// Applies a signed delta to a goal's current value. Progress is clamped to
// [0, target]; crossing the target completes the goal. Each effective
// update earns progress XP through the reward flow.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGoalProgressCommand contains the data to record progress.
type RecordGoalProgressCommand struct {
	// ProfileID owns the goal.
	ProfileID string

	// GoalID is the goal being advanced.
	GoalID string

	// Delta is the signed progress amount. Negative deltas roll progress
	// back but never below zero.
	Delta float64

	// Timestamp is when the progress happened (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c RecordGoalProgressCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("record_goal_progress: profile_id is required")
	}
	if c.GoalID == "" {
		return errors.New("record_goal_progress: goal_id is required")
	}
	if c.Delta == 0 {
		return errors.New("record_goal_progress: delta cannot be zero")
	}
	return nil
}

// RecordGoalProgressResult contains the result of recording progress.
type RecordGoalProgressResult struct {
	// GoalID echoes the goal.
	GoalID string

	// NewValue is the clamped current value after the update.
	NewValue float64

	// CompletionPercent is the derived progress share, 0..100.
	CompletionPercent float64

	// JustCompleted indicates this update crossed the target.
	JustCompleted bool

	// XPAwarded is the total XP applied, achievements included.
	XPAwarded int

	// LeveledUp indicates a level threshold was crossed.
	LeveledUp bool

	// NewLevel is the level after the reward flow.
	NewLevel int

	// NewBadges lists badge IDs earned by this update.
	NewBadges []string

	// Events contains every domain event the action produced.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGoalProgressHandler handles the RecordGoalProgressCommand.
type RecordGoalProgressHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewRecordGoalProgressHandler creates a new RecordGoalProgressHandler.
func NewRecordGoalProgressHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *RecordGoalProgressHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &RecordGoalProgressHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// Handle executes the record goal progress command.
func (h *RecordGoalProgressHandler) Handle(ctx context.Context, cmd RecordGoalProgressCommand) (*RecordGoalProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_goal_progress: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	progress, err := p.Goals.RecordProgress(cmd.GoalID, cmd.Delta)
	if err != nil {
		return nil, err
	}

	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{
		Source:        saga.SourceGoalProgress,
		TriggerEvents: progress.Events,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("record_goal_progress: %w", err)
	}

	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("record_goal_progress: %w", err)
	}

	result := &RecordGoalProgressResult{
		GoalID:            cmd.GoalID,
		NewValue:          progress.NewValue,
		CompletionPercent: progress.Goal.CompletionPercent(),
		JustCompleted:     progress.JustCompleted,
		XPAwarded:         reward.XPAwarded,
		LeveledUp:         reward.LeveledUp,
		NewLevel:          reward.NewLevel,
		Events:            reward.Events,
	}
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}
	return result, nil
}
