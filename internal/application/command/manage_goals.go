package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOAL MANAGEMENT COMMANDS
// Create, update, and delete goals. Progress and completion status are
// derived state and only move through RecordGoalProgress.
// ══════════════════════════════════════════════════════════════════════════════

// CreateGoalCommand contains the data to create a goal.
type CreateGoalCommand struct {
	// ProfileID owns the goal.
	ProfileID string

	// Title is the required goal title.
	Title string

	// Description is optional free text.
	Description string

	// Category groups the goal (defaults to "other").
	Category string

	// TargetValue is the required, positive completion target.
	TargetValue float64

	// Unit labels the target value.
	Unit string

	// Deadline is an optional target date.
	Deadline time.Time

	// Priority ranks the goal 1..5 (defaults to 3).
	Priority int

	// Timestamp is when the goal is created (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c CreateGoalCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("create_goal: profile_id is required")
	}
	def := goal.Definition{
		Title:       c.Title,
		Description: c.Description,
		Category:    goal.Category(c.Category),
		TargetValue: c.TargetValue,
		Unit:        c.Unit,
		Deadline:    c.Deadline,
		Priority:    c.Priority,
	}
	return def.Validate()
}

// CreateGoalResult contains the result of creating a goal.
type CreateGoalResult struct {
	GoalID    string
	Title     string
	Category  string
	Priority  int
	CreatedAt time.Time
}

// UpdateGoalCommand contains optional field changes for a goal. Nil fields
// are left untouched.
type UpdateGoalCommand struct {
	ProfileID   string
	GoalID      string
	Title       *string
	Description *string
	Category    *string
	TargetValue *float64
	Unit        *string
	Deadline    *time.Time
	Priority    *int
	Timestamp   time.Time
}

// Validate validates the command.
func (c UpdateGoalCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("update_goal: profile_id is required")
	}
	if c.GoalID == "" {
		return errors.New("update_goal: goal_id is required")
	}
	return nil
}

// UpdateGoalResult contains the updated goal.
type UpdateGoalResult struct {
	Goal *goal.Goal
}

// DeleteGoalCommand removes a goal and its milestones.
type DeleteGoalCommand struct {
	ProfileID string
	GoalID    string
	Timestamp time.Time
}

// Validate validates the command.
func (c DeleteGoalCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("delete_goal: profile_id is required")
	}
	if c.GoalID == "" {
		return errors.New("delete_goal: goal_id is required")
	}
	return nil
}

// DeleteGoalResult reports whether anything was removed. Deleting an
// unknown goal is a no-op, not an error.
type DeleteGoalResult struct {
	Deleted bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageGoalsHandler handles goal create, update, and delete.
type ManageGoalsHandler struct {
	store profileStore
	clock shared.Clock
}

// NewManageGoalsHandler creates a new ManageGoalsHandler.
func NewManageGoalsHandler(repo profile.Repository, clock shared.Clock) *ManageGoalsHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &ManageGoalsHandler{store: profileStore{repo: repo}, clock: clock}
}

// HandleCreate executes the create goal command.
func (h *ManageGoalsHandler) HandleCreate(ctx context.Context, cmd CreateGoalCommand) (*CreateGoalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_goal: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)
	created, err := p.Goals.Create(goal.Definition{
		Title:       cmd.Title,
		Description: cmd.Description,
		Category:    goal.Category(cmd.Category),
		TargetValue: cmd.TargetValue,
		Unit:        cmd.Unit,
		Deadline:    cmd.Deadline,
		Priority:    cmd.Priority,
	}, now)
	if err != nil {
		return nil, err
	}

	p.RefreshStats()
	p.Touch(now)
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("create_goal: %w", err)
	}

	return &CreateGoalResult{
		GoalID:    created.ID,
		Title:     created.Title,
		Category:  string(created.Category),
		Priority:  created.Priority.Int(),
		CreatedAt: created.CreatedAt,
	}, nil
}

// HandleUpdate executes the update goal command.
func (h *ManageGoalsHandler) HandleUpdate(ctx context.Context, cmd UpdateGoalCommand) (*UpdateGoalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_goal: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	upd := goal.Update{
		Title:       cmd.Title,
		Description: cmd.Description,
		TargetValue: cmd.TargetValue,
		Unit:        cmd.Unit,
		Deadline:    cmd.Deadline,
		Priority:    cmd.Priority,
	}
	if cmd.Category != nil {
		cat := goal.Category(*cmd.Category)
		upd.Category = &cat
	}

	updated, err := p.Goals.Update(cmd.GoalID, upd)
	if err != nil {
		return nil, err
	}

	p.RefreshStats()
	p.Touch(at(cmd.Timestamp, h.clock))
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("update_goal: %w", err)
	}

	return &UpdateGoalResult{Goal: updated}, nil
}

// HandleDelete executes the delete goal command.
func (h *ManageGoalsHandler) HandleDelete(ctx context.Context, cmd DeleteGoalCommand) (*DeleteGoalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_goal: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	deleted := p.Goals.Delete(cmd.GoalID)
	if deleted {
		p.RefreshStats()
		p.Touch(at(cmd.Timestamp, h.clock))
		if err := h.store.save(ctx, p); err != nil {
			return nil, fmt.Errorf("delete_goal: %w", err)
		}
	}

	return &DeleteGoalResult{Deleted: deleted}, nil
}
