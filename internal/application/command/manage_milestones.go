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
// MILESTONE COMMANDS
// Milestones are manual checkpoints within a goal. They are never achieved
// automatically by numeric progress; the user marks them done. Completion
// earns no direct XP but can satisfy badge rules.
// ══════════════════════════════════════════════════════════════════════════════

// AddMilestoneCommand contains the data to add a milestone to a goal.
type AddMilestoneCommand struct {
	ProfileID   string
	GoalID      string
	Title       string
	TargetValue float64
	Timestamp   time.Time
}

// Validate validates the command.
func (c AddMilestoneCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("add_milestone: profile_id is required")
	}
	if c.GoalID == "" {
		return errors.New("add_milestone: goal_id is required")
	}
	if c.Title == "" {
		return errors.New("add_milestone: title is required")
	}
	return nil
}

// AddMilestoneResult contains the result of adding a milestone.
type AddMilestoneResult struct {
	MilestoneID string
	GoalID      string
	Title       string
	CreatedAt   time.Time
}

// CompleteMilestoneCommand marks a milestone achieved. Completing an
// already-achieved milestone is a recognized no-op.
type CompleteMilestoneCommand struct {
	ProfileID   string
	GoalID      string
	MilestoneID string
	Timestamp   time.Time
}

// Validate validates the command.
func (c CompleteMilestoneCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("complete_milestone: profile_id is required")
	}
	if c.GoalID == "" {
		return errors.New("complete_milestone: goal_id is required")
	}
	if c.MilestoneID == "" {
		return errors.New("complete_milestone: milestone_id is required")
	}
	return nil
}

// CompleteMilestoneResult contains the result of completing a milestone.
type CompleteMilestoneResult struct {
	// Achieved is false for an already-achieved milestone.
	Achieved bool

	MilestoneID string

	// NewBadges lists badge IDs earned by this completion.
	NewBadges []string

	// Events contains every domain event the action produced.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageMilestonesHandler handles milestone add and complete.
type ManageMilestonesHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewManageMilestonesHandler creates a new ManageMilestonesHandler.
func NewManageMilestonesHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *ManageMilestonesHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &ManageMilestonesHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// HandleAdd executes the add milestone command.
func (h *ManageMilestonesHandler) HandleAdd(ctx context.Context, cmd AddMilestoneCommand) (*AddMilestoneResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_milestone: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)
	m, err := p.Goals.AddMilestone(cmd.GoalID, cmd.Title, cmd.TargetValue, now)
	if err != nil {
		return nil, err
	}

	p.Touch(now)
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("add_milestone: %w", err)
	}

	return &AddMilestoneResult{
		MilestoneID: m.ID,
		GoalID:      m.GoalID,
		Title:       m.Title,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// HandleComplete executes the complete milestone command.
func (h *ManageMilestonesHandler) HandleComplete(ctx context.Context, cmd CompleteMilestoneCommand) (*CompleteMilestoneResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_milestone: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	completion, err := p.Goals.CompleteMilestone(cmd.GoalID, cmd.MilestoneID, now)
	if err != nil {
		return nil, err
	}

	result := &CompleteMilestoneResult{
		Achieved:    completion.Achieved,
		MilestoneID: cmd.MilestoneID,
	}
	if !completion.Achieved {
		return result, nil
	}

	// No base XP; the flow only re-evaluates badge rules and publishes.
	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{
		Source:        saga.SourceGoalProgress,
		TriggerEvents: completion.Events,
		SkipBaseXP:    true,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("complete_milestone: %w", err)
	}

	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("complete_milestone: %w", err)
	}

	result.Events = reward.Events
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}
	return result, nil
}
