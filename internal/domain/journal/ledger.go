package journal

import (
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOURNAL LEDGER
// Owns dated mood/reflection entries and computes mood aggregates. The
// aggregates are always derived from the entries, never stored.
// ══════════════════════════════════════════════════════════════════════════════

// Ledger holds all journal entries for one profile.
type Ledger struct {
	profileID string
	entries   []*Entry
}

// NewLedger creates an empty journal ledger for a profile.
func NewLedger(profileID string) *Ledger {
	return &Ledger{profileID: profileID}
}

// Restore rebuilds a ledger from persisted state.
func Restore(profileID string, entries []*Entry) *Ledger {
	return &Ledger{profileID: profileID, entries: entries}
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// AddResult describes the outcome of an Add call.
type AddResult struct {
	Entry  *Entry
	Events []shared.Event
}

// Add validates the draft and appends a new entry.
func (l *Ledger) Add(d Draft, now time.Time) (*AddResult, error) {
	e, err := NewEntry(d, now)
	if err != nil {
		return nil, err
	}
	l.entries = append(l.entries, e)
	return &AddResult{
		Entry: e,
		Events: []shared.Event{
			shared.NewJournalEntryAddedEvent(l.profileID, e.ID, e.Mood.Int(), e.DayKey),
		},
	}, nil
}

// Update applies a partial update to an existing entry.
func (l *Ledger) Update(id string, upd Update) (*Entry, error) {
	e := l.find(id)
	if e == nil {
		return nil, shared.ErrEntryNotFound
	}
	if err := upd.Apply(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an entry. Deleting an unknown id is a no-op.
func (l *Ledger) Delete(id string) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries & Aggregates
// ─────────────────────────────────────────────────────────────────────────────

// Get returns an entry by id, or shared.ErrEntryNotFound.
func (l *Ledger) Get(id string) (*Entry, error) {
	if e := l.find(id); e != nil {
		return e, nil
	}
	return nil, shared.ErrEntryNotFound
}

// List returns all entries in creation order.
func (l *Ledger) List() []*Entry {
	return l.entries
}

// Count returns the number of entries.
func (l *Ledger) Count() int {
	return len(l.entries)
}

// MoodStats holds the derived mood aggregates.
type MoodStats struct {
	// AverageMood - mean mood across all entries (0 when empty).
	AverageMood float64

	// HighDays - entries with mood >= 8.
	HighDays int

	// LowDays - entries with mood <= 4.
	LowDays int

	// TotalEntries - total number of entries.
	TotalEntries int
}

// Stats computes the mood aggregates across all entries.
func (l *Ledger) Stats() MoodStats {
	st := MoodStats{TotalEntries: len(l.entries)}
	if len(l.entries) == 0 {
		return st
	}

	sum := 0
	for _, e := range l.entries {
		sum += e.Mood.Int()
		if e.Mood.IsHigh() {
			st.HighDays++
		}
		if e.Mood.IsLow() {
			st.LowDays++
		}
	}
	st.AverageMood = float64(sum) / float64(len(l.entries))
	return st
}

// ThisWeek returns the entries whose day falls in the ISO week (Monday to
// Sunday, UTC) containing now.
func (l *Ledger) ThisWeek(now time.Time) []*Entry {
	var out []*Entry
	for _, e := range l.entries {
		day, err := timeutil.ParseDayKey(e.DayKey)
		if err != nil {
			continue
		}
		if timeutil.InWeekOf(day, now) {
			out = append(out, e)
		}
	}
	return out
}

// ForDay returns the entries written about the calendar day of t.
func (l *Ledger) ForDay(t time.Time) []*Entry {
	key := timeutil.DayKey(t)
	var out []*Entry
	for _, e := range l.entries {
		if e.DayKey == key {
			out = append(out, e)
		}
	}
	return out
}

func (l *Ledger) find(id string) *Entry {
	for _, e := range l.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}
