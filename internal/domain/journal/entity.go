// Package journal contains the journal ledger: dated mood and reflection
// entries plus derived mood aggregates.
package journal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/pkg/timeutil"
)

// Entry is one dated journal record.
//
// Invariants: Mood is always within [1, 10]; at least one of Content and
// Gratitude is non-empty.
type Entry struct {
	// ID - unique identifier.
	ID string

	// DayKey - UTC calendar-day key (YYYY-MM-DD) the entry is about.
	DayKey string

	// Mood - rating on the 1-10 scale.
	Mood shared.Mood

	// Content - free-text reflection.
	Content string

	// Gratitude - free-text gratitude note.
	Gratitude string

	// Tags - free-form labels.
	Tags []string

	// CreatedAt - when the entry was written.
	CreatedAt time.Time
}

// Draft contains the user-supplied fields for a new entry.
type Draft struct {
	// Date is the day the entry is about. Zero means "now".
	Date time.Time

	// Mood is the submitted rating. Out-of-range values are clamped into
	// [1, 10] rather than rejected.
	Mood int

	Content   string
	Gratitude string
	Tags      []string
}

// Validate checks the draft. An entry needs content or a gratitude note to
// be worth persisting.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Content) == "" && strings.TrimSpace(d.Gratitude) == "" {
		return shared.ErrEmptyEntry
	}
	return nil
}

// NewEntry creates an entry from a draft, clamping the mood.
func NewEntry(d Draft, now time.Time) (*Entry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	date := d.Date
	if date.IsZero() {
		date = now
	}

	return &Entry{
		ID:        uuid.NewString(),
		DayKey:    timeutil.DayKey(date),
		Mood:      shared.ClampMood(d.Mood),
		Content:   strings.TrimSpace(d.Content),
		Gratitude: strings.TrimSpace(d.Gratitude),
		Tags:      d.Tags,
		CreatedAt: now,
	}, nil
}

// Update contains optional field changes for an existing entry.
// Unspecified fields are preserved.
type Update struct {
	Mood      *int
	Content   *string
	Gratitude *string
	Tags      *[]string
}

// Apply applies the non-nil fields to the entry. The resulting entry must
// still carry content or a gratitude note.
func (u Update) Apply(e *Entry) error {
	content := e.Content
	gratitude := e.Gratitude
	if u.Content != nil {
		content = strings.TrimSpace(*u.Content)
	}
	if u.Gratitude != nil {
		gratitude = strings.TrimSpace(*u.Gratitude)
	}
	if content == "" && gratitude == "" {
		return shared.ErrEmptyEntry
	}

	e.Content = content
	e.Gratitude = gratitude
	if u.Mood != nil {
		e.Mood = shared.ClampMood(*u.Mood)
	}
	if u.Tags != nil {
		e.Tags = *u.Tags
	}
	return nil
}

// Clone creates a copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Tags = append([]string(nil), e.Tags...)
	return &clone
}
