package query

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST QUERIES
// Plain entity listings. Entities are cloned on the way out; the ledgers
// inside the restored profile are private to the request anyway, but the
// HTTP layer must never hold live aggregate state.
// ══════════════════════════════════════════════════════════════════════════════

// ListHabitsQuery lists a profile's habits.
type ListHabitsQuery struct {
	ProfileID  string
	ActiveOnly bool
}

// ListGoalsQuery lists a profile's goals, optionally filtered by status.
type ListGoalsQuery struct {
	ProfileID string
	Status    string
}

// ListJournalQuery lists a profile's journal entries, newest first.
type ListJournalQuery struct {
	ProfileID string
	Limit     int
}

// ListHandler serves the entity listings.
type ListHandler struct {
	repo profile.Repository
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo profile.Repository) *ListHandler {
	return &ListHandler{repo: repo}
}

// Habits executes the list habits query.
func (h *ListHandler) Habits(ctx context.Context, q ListHabitsQuery) ([]*habit.Habit, error) {
	if q.ProfileID == "" {
		return nil, errors.New("list_habits: profile_id is required")
	}
	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	source := p.Habits.List()
	if q.ActiveOnly {
		source = p.Habits.Active()
	}
	out := make([]*habit.Habit, 0, len(source))
	for _, hb := range source {
		out = append(out, hb.Clone())
	}
	return out, nil
}

// Goals executes the list goals query.
func (h *ListHandler) Goals(ctx context.Context, q ListGoalsQuery) ([]*goal.Goal, error) {
	if q.ProfileID == "" {
		return nil, errors.New("list_goals: profile_id is required")
	}
	if q.Status != "" && !goal.Status(q.Status).IsValid() {
		return nil, fmt.Errorf("list_goals: unknown status %q", q.Status)
	}
	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	source := p.Goals.List()
	if q.Status != "" {
		source = p.Goals.ByStatus(goal.Status(q.Status))
	}
	out := make([]*goal.Goal, 0, len(source))
	for _, g := range source {
		out = append(out, g.Clone())
	}
	// Highest priority first, ties by creation time.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Journal executes the list journal query.
func (h *ListHandler) Journal(ctx context.Context, q ListJournalQuery) ([]*journal.Entry, error) {
	if q.ProfileID == "" {
		return nil, errors.New("list_journal: profile_id is required")
	}
	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	source := p.Journal.List()
	out := make([]*journal.Entry, 0, len(source))
	for _, e := range source {
		out = append(out, e.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DayKey != out[j].DayKey {
			return out[i].DayKey > out[j].DayKey
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
