package goal

import (
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOAL LEDGER
// Owns goals, their progress values and nested milestones; computes
// completion status. Progress is clamped to [0, target]; completion fires
// exactly once, on the active -> completed transition.
// ══════════════════════════════════════════════════════════════════════════════

// Ledger holds all goals for one profile.
type Ledger struct {
	profileID string
	goals     []*Goal
}

// NewLedger creates an empty goal ledger for a profile.
func NewLedger(profileID string) *Ledger {
	return &Ledger{profileID: profileID}
}

// Restore rebuilds a ledger from persisted state.
func Restore(profileID string, goals []*Goal) *Ledger {
	return &Ledger{profileID: profileID, goals: goals}
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// Create validates the definition and adds a new goal.
func (l *Ledger) Create(def Definition, now time.Time) (*Goal, error) {
	g, err := NewGoal(def, now)
	if err != nil {
		return nil, err
	}
	l.goals = append(l.goals, g)
	return g, nil
}

// Update applies a partial update to an existing goal.
func (l *Ledger) Update(id string, upd Update) (*Goal, error) {
	g := l.find(id)
	if g == nil {
		return nil, shared.ErrGoalNotFound
	}
	if err := upd.Apply(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a goal and cascades to its milestones (owned exclusively
// by the goal, so they go with it). Deleting an unknown id is a no-op.
func (l *Ledger) Delete(id string) bool {
	for i, g := range l.goals {
		if g.ID == id {
			g.Milestones = nil
			l.goals = append(l.goals[:i], l.goals[i+1:]...)
			return true
		}
	}
	return false
}

// ProgressResult describes the outcome of a RecordProgress call.
type ProgressResult struct {
	// Goal is the goal after the mutation.
	Goal *Goal

	// NewValue is the clamped progress value after the update.
	NewValue float64

	// JustCompleted is true when this update moved the goal from active
	// to completed. It is never true twice for the same goal.
	JustCompleted bool

	// Events are the domain events produced by the mutation.
	Events []shared.Event
}

// RecordProgress adds delta to the goal's progress, clamped to [0, target].
// Negative deltas are accepted as corrections and clamp at zero.
//
// If the goal was active and the clamped value reaches the target, the goal
// becomes completed. Progress on a non-active goal is rejected.
func (l *Ledger) RecordProgress(id string, delta float64) (*ProgressResult, error) {
	g := l.find(id)
	if g == nil {
		return nil, shared.ErrGoalNotFound
	}
	if g.Status != StatusActive {
		return nil, shared.ErrGoalNotActive
	}

	value := g.CurrentValue + delta
	if value > g.TargetValue {
		value = g.TargetValue
	}
	if value < 0 {
		value = 0
	}
	g.CurrentValue = value

	res := &ProgressResult{Goal: g, NewValue: value}

	if g.CurrentValue >= g.TargetValue {
		g.Status = StatusCompleted
		res.JustCompleted = true
	}

	res.Events = append(res.Events,
		shared.NewGoalProgressUpdatedEvent(l.profileID, g.ID, g.Title, g.CurrentValue, g.TargetValue, res.JustCompleted))
	if res.JustCompleted {
		res.Events = append(res.Events, shared.NewGoalCompletedEvent(l.profileID, g.ID, g.Title))
	}

	return res, nil
}

// AddMilestone appends a milestone with no achieved timestamp.
func (l *Ledger) AddMilestone(goalID, title string, targetValue float64, now time.Time) (*Milestone, error) {
	g := l.find(goalID)
	if g == nil {
		return nil, shared.ErrGoalNotFound
	}
	m, err := NewMilestone(goalID, title, targetValue, now)
	if err != nil {
		return nil, err
	}
	g.Milestones = append(g.Milestones, m)
	return m, nil
}

// MilestoneResult describes the outcome of a CompleteMilestone call.
type MilestoneResult struct {
	// Milestone is the milestone after the mutation.
	Milestone *Milestone

	// Achieved is true when the milestone was newly achieved. False means
	// it had already been achieved and nothing changed.
	Achieved bool

	// Events are the domain events produced by the mutation.
	Events []shared.Event
}

// CompleteMilestone sets the achieved timestamp if not already set.
// Milestone achievement is an explicit action, never derived from the
// goal's numeric progress.
func (l *Ledger) CompleteMilestone(goalID, milestoneID string, now time.Time) (*MilestoneResult, error) {
	g := l.find(goalID)
	if g == nil {
		return nil, shared.ErrGoalNotFound
	}
	for _, m := range g.Milestones {
		if m.ID == milestoneID {
			if m.IsAchieved() {
				return &MilestoneResult{Milestone: m, Achieved: false}, nil
			}
			m.AchievedAt = now
			return &MilestoneResult{
				Milestone: m,
				Achieved:  true,
				Events: []shared.Event{
					shared.NewMilestoneAchievedEvent(l.profileID, goalID, m.ID, m.Title),
				},
			}, nil
		}
	}
	return nil, shared.ErrMilestoneNotFound
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// Get returns a goal by id, or shared.ErrGoalNotFound.
func (l *Ledger) Get(id string) (*Goal, error) {
	if g := l.find(id); g != nil {
		return g, nil
	}
	return nil, shared.ErrGoalNotFound
}

// List returns all goals in creation order.
func (l *Ledger) List() []*Goal {
	return l.goals
}

// ByStatus returns all goals with the given status.
func (l *Ledger) ByStatus(status Status) []*Goal {
	var out []*Goal
	for _, g := range l.goals {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}

// Count returns the total number of goals.
func (l *Ledger) Count() int {
	return len(l.goals)
}

// CompletedCount returns the number of completed goals.
func (l *Ledger) CompletedCount() int {
	return len(l.ByStatus(StatusCompleted))
}

// CheckInvariants verifies internal consistency of every goal. A violation
// indicates an engine bug, not bad input.
func (l *Ledger) CheckInvariants() error {
	for _, g := range l.goals {
		if g.CurrentValue < 0 || g.CurrentValue > g.TargetValue {
			return shared.NewDomainError("goal", "CheckInvariants", shared.ErrInvariantViolation,
				"goal progress outside [0, target]")
		}
		if g.Status == StatusCompleted && g.CurrentValue < g.TargetValue {
			return shared.NewDomainError("goal", "CheckInvariants", shared.ErrInvariantViolation,
				"goal marked completed below target")
		}
	}
	return nil
}

func (l *Ledger) find(id string) *Goal {
	for _, g := range l.goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}
