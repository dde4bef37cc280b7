package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MOOD SUMMARY QUERY
// Mood aggregates over the journal: average, high days (mood >= 8), low
// days (mood <= 4), and this ISO week's entries.
// ══════════════════════════════════════════════════════════════════════════════

// GetMoodSummaryQuery contains the mood summary request parameters.
type GetMoodSummaryQuery struct {
	// ProfileID selects the profile.
	ProfileID string

	// Date anchors "this week" (empty means today).
	Date time.Time
}

// Validate validates the query.
func (q *GetMoodSummaryQuery) Validate() error {
	if q.ProfileID == "" {
		return errors.New("get_mood_summary: profile_id is required")
	}
	return nil
}

// MoodWeekEntryDTO is one entry in the week listing.
type MoodWeekEntryDTO struct {
	EntryID string `json:"entry_id"`
	DayKey  string `json:"day_key"`
	Mood    int    `json:"mood"`
}

// MoodSummaryDTO is the mood read model.
type MoodSummaryDTO struct {
	ProfileID    string             `json:"profile_id"`
	AverageMood  float64            `json:"average_mood"`
	HighDays     int                `json:"high_days"`
	LowDays      int                `json:"low_days"`
	TotalEntries int                `json:"total_entries"`
	ThisWeek     []MoodWeekEntryDTO `json:"this_week"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetMoodSummaryHandler handles the GetMoodSummaryQuery.
type GetMoodSummaryHandler struct {
	repo  profile.Repository
	clock shared.Clock
}

// NewGetMoodSummaryHandler creates a new GetMoodSummaryHandler.
func NewGetMoodSummaryHandler(repo profile.Repository, clock shared.Clock) *GetMoodSummaryHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &GetMoodSummaryHandler{repo: repo, clock: clock}
}

// Handle executes the mood summary query.
func (h *GetMoodSummaryHandler) Handle(ctx context.Context, q GetMoodSummaryQuery) (*MoodSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_mood_summary: %w", err)
	}

	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	now := q.Date
	if now.IsZero() {
		now = h.clock.Now().UTC()
	}

	stats := p.Journal.Stats()
	dto := &MoodSummaryDTO{
		ProfileID:    p.ID,
		AverageMood:  stats.AverageMood,
		HighDays:     stats.HighDays,
		LowDays:      stats.LowDays,
		TotalEntries: stats.TotalEntries,
	}

	for _, e := range p.Journal.ThisWeek(now) {
		dto.ThisWeek = append(dto.ThisWeek, MoodWeekEntryDTO{
			EntryID: e.ID,
			DayKey:  e.DayKey,
			Mood:    e.Mood.Int(),
		})
	}

	return dto, nil
}
