// Package habit contains the habit ledger: habit definitions, per-day
// completion entries, and streak accounting. This is pure business logic
// with no infrastructure dependencies.
package habit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Frequency defines how often a habit is meant to be performed.
type Frequency string

const (
	// FrequencyDaily - the habit is performed every day.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly - the habit is performed once per week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyCustom - the habit follows a user-defined cadence.
	FrequencyCustom Frequency = "custom"
)

// IsValid checks that the frequency is one of the known classes.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Habit is a tracked recurring behavior.
type Habit struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// Name - short display name. Never empty.
	Name string

	// Description - optional longer description.
	Description string

	// Frequency - how often the habit should be performed.
	Frequency Frequency

	// TargetValue - the amount that counts as one completion (e.g. 30).
	TargetValue float64

	// Unit - unit for TargetValue (e.g. "minutes", "sessions").
	Unit string

	// IsActive - whether the habit is currently tracked.
	IsActive bool

	// Streak - consecutive calendar days with a completion.
	// Only ever mutated by completion events, never by direct edit.
	Streak int

	// BestStreak - the longest streak this habit has ever reached.
	BestStreak int

	// LastCompleted - timestamp of the most recent completion (zero if never).
	LastCompleted time.Time

	// CreatedAt - creation timestamp.
	CreatedAt time.Time
}

// Entry records one completion of a habit on one calendar day.
// At most one Entry exists per (HabitID, DayKey).
type Entry struct {
	// ID - unique identifier.
	ID string

	// HabitID - the habit this entry belongs to.
	HabitID string

	// DayKey - UTC calendar-day key (YYYY-MM-DD).
	DayKey string

	// Value - the recorded amount.
	Value float64

	// Notes - optional free-text notes.
	Notes string

	// CreatedAt - when the completion was recorded.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// Definition contains the user-supplied fields for a new habit.
type Definition struct {
	Name        string
	Description string
	Frequency   Frequency
	TargetValue float64
	Unit        string
}

// Validate checks the definition before a habit is created.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.ErrEmptyHabitName
	}
	if d.Frequency != "" && !d.Frequency.IsValid() {
		return shared.ErrInvalidFrequency
	}
	return nil
}

// NewHabit creates a habit from a definition. The streak starts at zero and
// the habit is active.
func NewHabit(def Definition, now time.Time) (*Habit, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	freq := def.Frequency
	if freq == "" {
		freq = FrequencyDaily
	}

	target := def.TargetValue
	if target <= 0 {
		target = 1
	}

	return &Habit{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(def.Name),
		Description: strings.TrimSpace(def.Description),
		Frequency:   freq,
		TargetValue: target,
		Unit:        def.Unit,
		IsActive:    true,
		Streak:      0,
		BestStreak:  0,
		CreatedAt:   now,
	}, nil
}

// Update contains optional field changes for an existing habit.
// Derived state (streak, entries) is never touched by an update.
type Update struct {
	Name        *string
	Description *string
	Frequency   *Frequency
	TargetValue *float64
	Unit        *string
	IsActive    *bool
}

// Apply applies the non-nil fields to the habit.
func (u Update) Apply(h *Habit) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.ErrEmptyHabitName
		}
		h.Name = name
	}
	if u.Description != nil {
		h.Description = strings.TrimSpace(*u.Description)
	}
	if u.Frequency != nil {
		if !u.Frequency.IsValid() {
			return shared.ErrInvalidFrequency
		}
		h.Frequency = *u.Frequency
	}
	if u.TargetValue != nil && *u.TargetValue > 0 {
		h.TargetValue = *u.TargetValue
	}
	if u.Unit != nil {
		h.Unit = *u.Unit
	}
	if u.IsActive != nil {
		h.IsActive = *u.IsActive
	}
	return nil
}

// Clone creates a copy of the habit.
func (h *Habit) Clone() *Habit {
	if h == nil {
		return nil
	}
	clone := *h
	return &clone
}
