package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HABIT MANAGEMENT COMMANDS
// Create, update, and delete habit definitions. None of these touch streaks
// or XP; only completion does.
// ══════════════════════════════════════════════════════════════════════════════

// CreateHabitCommand contains the data to create a habit.
type CreateHabitCommand struct {
	// ProfileID owns the habit.
	ProfileID string

	// Name is the required habit name.
	Name string

	// Description is optional free text.
	Description string

	// Frequency is daily, weekly, or custom (defaults to daily).
	Frequency string

	// TargetValue is the per-completion goal amount (defaults to 1).
	TargetValue float64

	// Unit labels the target value (e.g. "minutes", "pages").
	Unit string

	// Timestamp is when the habit is created (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c CreateHabitCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("create_habit: profile_id is required")
	}
	def := habit.Definition{
		Name:        c.Name,
		Description: c.Description,
		Frequency:   habit.Frequency(c.Frequency),
		TargetValue: c.TargetValue,
		Unit:        c.Unit,
	}
	return def.Validate()
}

// CreateHabitResult contains the result of creating a habit.
type CreateHabitResult struct {
	HabitID   string
	Name      string
	Frequency string
	CreatedAt time.Time
}

// UpdateHabitCommand contains optional field changes for a habit. Nil fields
// are left untouched.
type UpdateHabitCommand struct {
	ProfileID   string
	HabitID     string
	Name        *string
	Description *string
	Frequency   *string
	TargetValue *float64
	Unit        *string
	IsActive    *bool
	Timestamp   time.Time
}

// Validate validates the command.
func (c UpdateHabitCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("update_habit: profile_id is required")
	}
	if c.HabitID == "" {
		return errors.New("update_habit: habit_id is required")
	}
	return nil
}

// UpdateHabitResult contains the updated habit.
type UpdateHabitResult struct {
	Habit *habit.Habit
}

// DeleteHabitCommand removes a habit and its completion entries.
type DeleteHabitCommand struct {
	ProfileID string
	HabitID   string
	Timestamp time.Time
}

// Validate validates the command.
func (c DeleteHabitCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("delete_habit: profile_id is required")
	}
	if c.HabitID == "" {
		return errors.New("delete_habit: habit_id is required")
	}
	return nil
}

// DeleteHabitResult reports whether anything was removed. Deleting an
// unknown habit is a no-op, not an error.
type DeleteHabitResult struct {
	Deleted bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageHabitsHandler handles habit create, update, and delete.
type ManageHabitsHandler struct {
	store profileStore
	clock shared.Clock
}

// NewManageHabitsHandler creates a new ManageHabitsHandler.
func NewManageHabitsHandler(repo profile.Repository, clock shared.Clock) *ManageHabitsHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &ManageHabitsHandler{store: profileStore{repo: repo}, clock: clock}
}

// HandleCreate executes the create habit command.
func (h *ManageHabitsHandler) HandleCreate(ctx context.Context, cmd CreateHabitCommand) (*CreateHabitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_habit: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)
	created, err := p.Habits.Create(habit.Definition{
		Name:        cmd.Name,
		Description: cmd.Description,
		Frequency:   habit.Frequency(cmd.Frequency),
		TargetValue: cmd.TargetValue,
		Unit:        cmd.Unit,
	}, now)
	if err != nil {
		return nil, err
	}

	p.RefreshStats()
	p.Touch(now)
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("create_habit: %w", err)
	}

	return &CreateHabitResult{
		HabitID:   created.ID,
		Name:      created.Name,
		Frequency: string(created.Frequency),
		CreatedAt: created.CreatedAt,
	}, nil
}

// HandleUpdate executes the update habit command.
func (h *ManageHabitsHandler) HandleUpdate(ctx context.Context, cmd UpdateHabitCommand) (*UpdateHabitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_habit: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	upd := habit.Update{
		Name:        cmd.Name,
		Description: cmd.Description,
		TargetValue: cmd.TargetValue,
		Unit:        cmd.Unit,
		IsActive:    cmd.IsActive,
	}
	if cmd.Frequency != nil {
		freq := habit.Frequency(*cmd.Frequency)
		upd.Frequency = &freq
	}

	updated, err := p.Habits.Update(cmd.HabitID, upd)
	if err != nil {
		return nil, err
	}

	p.RefreshStats()
	p.Touch(at(cmd.Timestamp, h.clock))
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("update_habit: %w", err)
	}

	return &UpdateHabitResult{Habit: updated.Clone()}, nil
}

// HandleDelete executes the delete habit command.
func (h *ManageHabitsHandler) HandleDelete(ctx context.Context, cmd DeleteHabitCommand) (*DeleteHabitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_habit: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	deleted := p.Habits.Delete(cmd.HabitID)
	if deleted {
		p.RefreshStats()
		p.Touch(at(cmd.Timestamp, h.clock))
		if err := h.store.save(ctx, p); err != nil {
			return nil, fmt.Errorf("delete_habit: %w", err)
		}
	}

	return &DeleteHabitResult{Deleted: deleted}, nil
}
