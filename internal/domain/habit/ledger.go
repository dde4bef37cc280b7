package habit

import (
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HABIT LEDGER
// Owns habit definitions and per-day completion entries; computes streaks.
// Completion is idempotent per calendar day: the second completion of the
// same habit on the same day is a no-op and awards nothing.
// ══════════════════════════════════════════════════════════════════════════════

// Ledger holds all habits and completion entries for one profile.
type Ledger struct {
	profileID string
	habits    []*Habit
	entries   []*Entry
}

// NewLedger creates an empty habit ledger for a profile.
func NewLedger(profileID string) *Ledger {
	return &Ledger{profileID: profileID}
}

// Restore rebuilds a ledger from persisted state.
func Restore(profileID string, habits []*Habit, entries []*Entry) *Ledger {
	return &Ledger{
		profileID: profileID,
		habits:    habits,
		entries:   entries,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// Create validates the definition and adds a new habit.
func (l *Ledger) Create(def Definition, now time.Time) (*Habit, error) {
	h, err := NewHabit(def, now)
	if err != nil {
		return nil, err
	}
	l.habits = append(l.habits, h)
	return h, nil
}

// Update applies a partial update to an existing habit.
func (l *Ledger) Update(id string, upd Update) (*Habit, error) {
	h := l.find(id)
	if h == nil {
		return nil, shared.ErrHabitNotFound
	}
	if err := upd.Apply(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes a habit and cascades to all its entries.
// Deleting an unknown id is a no-op; the returned bool tells whether
// anything was removed.
func (l *Ledger) Delete(id string) bool {
	idx := -1
	for i, h := range l.habits {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	l.habits = append(l.habits[:idx], l.habits[idx+1:]...)

	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.HabitID != id {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	return true
}

// CompletionResult describes the outcome of a Complete call.
type CompletionResult struct {
	// Completed is true when a new completion was recorded. False means
	// the habit was already completed today and nothing changed.
	Completed bool

	// Habit is the habit after the mutation.
	Habit *Habit

	// Entry is the new completion entry (nil on a no-op).
	Entry *Entry

	// NewStreak is the streak after the completion.
	NewStreak int

	// StreakBroken is true when one or more days were missed and the
	// streak restarted at 1.
	StreakBroken bool

	// PreviousStreak is the streak before it broke (when StreakBroken).
	PreviousStreak int

	// DaysMissed is the size of the gap before this completion (when StreakBroken).
	DaysMissed int

	// Events are the domain events produced by the mutation.
	Events []shared.Event
}

// Complete records a completion of the habit for the calendar day of now.
//
// Streak continuity: completing on the day after the previous completion
// extends the streak; a gap of more than one day restarts it at 1. Callers
// must only award XP when Completed is true.
func (l *Ledger) Complete(id string, value float64, notes string, now time.Time) (*CompletionResult, error) {
	h := l.find(id)
	if h == nil {
		return nil, shared.ErrHabitNotFound
	}

	dayKey := timeutil.DayKey(now)
	if l.entryFor(id, dayKey) != nil {
		// Already completed today - idempotent no-op.
		return &CompletionResult{
			Completed: false,
			Habit:     h,
			NewStreak: h.Streak,
		}, nil
	}

	if value <= 0 {
		value = h.TargetValue
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		HabitID:   id,
		DayKey:    dayKey,
		Value:     value,
		Notes:     notes,
		CreatedAt: now,
	}
	l.entries = append(l.entries, entry)

	res := &CompletionResult{
		Completed: true,
		Habit:     h,
		Entry:     entry,
	}

	switch {
	case h.LastCompleted.IsZero():
		h.Streak = 1
	case timeutil.IsYesterday(h.LastCompleted, now):
		h.Streak++
	default:
		// Missed one or more days - the streak restarts.
		res.StreakBroken = true
		res.PreviousStreak = h.Streak
		res.DaysMissed = timeutil.DaysBetween(h.LastCompleted, now) - 1
		h.Streak = 1
	}

	if h.Streak > h.BestStreak {
		h.BestStreak = h.Streak
	}
	h.LastCompleted = now
	res.NewStreak = h.Streak

	if res.StreakBroken {
		res.Events = append(res.Events,
			shared.NewStreakBrokenEvent(l.profileID, h.ID, h.Name, res.PreviousStreak, res.DaysMissed))
	}
	res.Events = append(res.Events,
		shared.NewHabitCompletedEvent(l.profileID, h.ID, h.Name, h.Streak, dayKey))

	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// Get returns a habit by id, or shared.ErrHabitNotFound.
func (l *Ledger) Get(id string) (*Habit, error) {
	if h := l.find(id); h != nil {
		return h, nil
	}
	return nil, shared.ErrHabitNotFound
}

// List returns all habits in creation order.
func (l *Ledger) List() []*Habit {
	return l.habits
}

// Active returns all active habits.
func (l *Ledger) Active() []*Habit {
	var active []*Habit
	for _, h := range l.habits {
		if h.IsActive {
			active = append(active, h)
		}
	}
	return active
}

// Count returns the total number of habits.
func (l *Ledger) Count() int {
	return len(l.habits)
}

// ActiveCount returns the number of active habits.
func (l *Ledger) ActiveCount() int {
	return len(l.Active())
}

// Entries returns all completion entries.
func (l *Ledger) Entries() []*Entry {
	return l.entries
}

// EntriesFor returns the completion entries of one habit.
func (l *Ledger) EntriesFor(habitID string) []*Entry {
	var out []*Entry
	for _, e := range l.entries {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	return out
}

// CompletedOn reports whether the habit has an entry for the calendar day of t.
func (l *Ledger) CompletedOn(habitID string, t time.Time) bool {
	return l.entryFor(habitID, timeutil.DayKey(t)) != nil
}

// MaxStreak returns the highest current streak across all habits.
func (l *Ledger) MaxStreak() int {
	max := 0
	for _, h := range l.habits {
		if h.Streak > max {
			max = h.Streak
		}
	}
	return max
}

// MaxBestStreak returns the highest streak ever reached across all habits.
func (l *Ledger) MaxBestStreak() int {
	max := 0
	for _, h := range l.habits {
		if h.BestStreak > max {
			max = h.BestStreak
		}
	}
	return max
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func (l *Ledger) find(id string) *Habit {
	for _, h := range l.habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

func (l *Ledger) entryFor(habitID, dayKey string) *Entry {
	for _, e := range l.entries {
		if e.HabitID == habitID && e.DayKey == dayKey {
			return e
		}
	}
	return nil
}
