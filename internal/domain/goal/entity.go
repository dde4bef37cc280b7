// Package goal contains the goal ledger: goals, their progress values, and
// nested milestones. Pure business logic with no infrastructure dependencies.
package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Category classifies a goal.
type Category string

const (
	CategoryHealth        Category = "health"
	CategoryCareer        Category = "career"
	CategoryRelationships Category = "relationships"
	CategoryLearning      Category = "learning"
	CategoryFinance       Category = "finance"
	CategoryCreativity    Category = "creativity"
	CategoryOther         Category = "other"
)

// IsValid checks that the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryHealth, CategoryCareer, CategoryRelationships,
		CategoryLearning, CategoryFinance, CategoryCreativity, CategoryOther:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a goal.
type Status string

const (
	// StatusActive - the goal is being pursued.
	StatusActive Status = "active"
	// StatusCompleted - the goal reached its target. Set exactly once,
	// never reverted automatically.
	StatusCompleted Status = "completed"
	// StatusPaused - the goal is on hold.
	StatusPaused Status = "paused"
	// StatusCancelled - the goal was abandoned.
	StatusCancelled Status = "cancelled"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Goal is a measurable objective with numeric progress and ordered milestones.
//
// Invariants: CurrentValue stays within [0, TargetValue]; Status becomes
// completed exactly when CurrentValue reaches TargetValue while the goal is
// active, and never reverts automatically.
type Goal struct {
	ID          string
	Title       string
	Description string
	Category    Category
	TargetValue float64
	CurrentValue float64
	Unit        string
	Deadline    time.Time // zero when no deadline is set
	Priority    shared.Priority
	Status      Status
	CreatedAt   time.Time
	Milestones  []*Milestone
}

// Milestone is a sub-goal checkpoint owned exclusively by its Goal.
// It is achieved by explicit action, independently of the goal's numeric
// progress, and AchievedAt is set at most once.
type Milestone struct {
	ID          string
	GoalID      string
	Title       string
	TargetValue float64
	AchievedAt  time.Time // zero until achieved
	CreatedAt   time.Time
}

// IsAchieved reports whether the milestone has been completed.
func (m *Milestone) IsAchieved() bool {
	return !m.AchievedAt.IsZero()
}

// CompletionPercent returns the goal's progress as a percentage in [0, 100].
func (g *Goal) CompletionPercent() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Clone creates a deep copy of the goal.
func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	clone := *g
	clone.Milestones = make([]*Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		mc := *m
		clone.Milestones[i] = &mc
	}
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// Definition contains the user-supplied fields for a new goal.
type Definition struct {
	Title       string
	Description string
	Category    Category
	TargetValue float64
	Unit        string
	Deadline    time.Time
	Priority    int
}

// Validate checks the definition before a goal is created.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return shared.ErrEmptyGoalTitle
	}
	if d.TargetValue <= 0 {
		return shared.ErrInvalidTargetValue
	}
	if d.Category != "" && !d.Category.IsValid() {
		return shared.ErrInvalidCategory
	}
	if d.Priority != 0 {
		if _, err := shared.NewPriority(d.Priority); err != nil {
			return err
		}
	}
	return nil
}

// NewGoal creates a goal from a definition. Progress starts at zero, the
// milestone list is empty, and the goal is active.
func NewGoal(def Definition, now time.Time) (*Goal, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	category := def.Category
	if category == "" {
		category = CategoryOther
	}
	priority := shared.Priority(def.Priority)
	if def.Priority == 0 {
		priority = 3
	}

	return &Goal{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(def.Title),
		Description:  strings.TrimSpace(def.Description),
		Category:     category,
		TargetValue:  def.TargetValue,
		CurrentValue: 0,
		Unit:         def.Unit,
		Deadline:     def.Deadline,
		Priority:     priority,
		Status:       StatusActive,
		CreatedAt:    now,
	}, nil
}

// Update contains optional field changes for an existing goal.
// CurrentValue and Status are derived state and cannot be edited directly.
type Update struct {
	Title       *string
	Description *string
	Category    *Category
	TargetValue *float64
	Unit        *string
	Deadline    *time.Time
	Priority    *int
}

// Apply applies the non-nil fields to the goal.
func (u Update) Apply(g *Goal) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return shared.ErrEmptyGoalTitle
		}
		g.Title = title
	}
	if u.Description != nil {
		g.Description = strings.TrimSpace(*u.Description)
	}
	if u.Category != nil {
		if !u.Category.IsValid() {
			return shared.ErrInvalidCategory
		}
		g.Category = *u.Category
	}
	if u.TargetValue != nil {
		if *u.TargetValue <= 0 {
			return shared.ErrInvalidTargetValue
		}
		g.TargetValue = *u.TargetValue
		if g.CurrentValue > g.TargetValue {
			g.CurrentValue = g.TargetValue
		}
	}
	if u.Unit != nil {
		g.Unit = *u.Unit
	}
	if u.Deadline != nil {
		g.Deadline = *u.Deadline
	}
	if u.Priority != nil {
		p, err := shared.NewPriority(*u.Priority)
		if err != nil {
			return err
		}
		g.Priority = p
	}
	return nil
}

// NewMilestone creates a milestone for a goal.
func NewMilestone(goalID, title string, targetValue float64, now time.Time) (*Milestone, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("goal", "AddMilestone", shared.ErrEmptyValue, "milestone title cannot be empty")
	}
	return &Milestone{
		ID:          uuid.NewString(),
		GoalID:      goalID,
		Title:       strings.TrimSpace(title),
		TargetValue: targetValue,
		CreatedAt:   now,
	}, nil
}
