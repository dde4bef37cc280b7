package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// The main screen read model: today's habits with completion status, active
// goals with percentages, progression stats, and a summary of this week's
// journal.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery contains the dashboard request parameters.
type GetDashboardQuery struct {
	// ProfileID selects the profile.
	ProfileID string

	// Date is the day the dashboard is about (empty means today).
	Date time.Time
}

// Validate validates the query.
func (q *GetDashboardQuery) Validate() error {
	if q.ProfileID == "" {
		return errors.New("get_dashboard: profile_id is required")
	}
	return nil
}

// DashboardHabitDTO is one habit row on the dashboard.
type DashboardHabitDTO struct {
	HabitID       string  `json:"habit_id"`
	Name          string  `json:"name"`
	Frequency     string  `json:"frequency"`
	TargetValue   float64 `json:"target_value"`
	Unit          string  `json:"unit,omitempty"`
	Streak        int     `json:"streak"`
	BestStreak    int     `json:"best_streak"`
	CompletedToday bool   `json:"completed_today"`
}

// DashboardGoalDTO is one goal row on the dashboard.
type DashboardGoalDTO struct {
	GoalID            string  `json:"goal_id"`
	Title             string  `json:"title"`
	Category          string  `json:"category"`
	Status            string  `json:"status"`
	CurrentValue      float64 `json:"current_value"`
	TargetValue       float64 `json:"target_value"`
	CompletionPercent float64 `json:"completion_percent"`
	Priority          int     `json:"priority"`
	MilestonesTotal   int     `json:"milestones_total"`
	MilestonesHit     int     `json:"milestones_hit"`
}

// DashboardStatsDTO mirrors the progression state for display.
type DashboardStatsDTO struct {
	TotalXP        int `json:"total_xp"`
	Level          int `json:"level"`
	CurrentLevelXP int `json:"current_level_xp"`
	NextLevelXP    int `json:"next_level_xp"`
	CurrentStreak  int `json:"current_streak"`
	LongestStreak  int `json:"longest_streak"`
	Achievements   int `json:"achievements"`
}

// DashboardJournalDTO summarizes this week's journal.
type DashboardJournalDTO struct {
	EntriesThisWeek int     `json:"entries_this_week"`
	AverageMood     float64 `json:"average_mood"`
	WroteToday      bool    `json:"wrote_today"`
}

// DashboardDTO is the complete dashboard read model.
type DashboardDTO struct {
	ProfileID   string              `json:"profile_id"`
	DisplayName string              `json:"display_name"`
	Date        string              `json:"date"`
	Habits      []DashboardHabitDTO `json:"habits"`
	Goals       []DashboardGoalDTO  `json:"goals"`
	Stats       DashboardStatsDTO   `json:"stats"`
	Journal     DashboardJournalDTO `json:"journal"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardHandler handles the GetDashboardQuery.
type GetDashboardHandler struct {
	repo  profile.Repository
	clock shared.Clock
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(repo profile.Repository, clock shared.Clock) *GetDashboardHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &GetDashboardHandler{repo: repo, clock: clock}
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_dashboard: %w", err)
	}

	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	now := q.Date
	if now.IsZero() {
		now = h.clock.Now().UTC()
	}

	dto := &DashboardDTO{
		ProfileID:   p.ID,
		DisplayName: p.DisplayName,
		Date:        timeutil.DayKey(now),
		GeneratedAt: h.clock.Now().UTC(),
	}

	for _, hb := range p.Habits.Active() {
		dto.Habits = append(dto.Habits, DashboardHabitDTO{
			HabitID:        hb.ID,
			Name:           hb.Name,
			Frequency:      string(hb.Frequency),
			TargetValue:    hb.TargetValue,
			Unit:           hb.Unit,
			Streak:         hb.Streak,
			BestStreak:     hb.BestStreak,
			CompletedToday: p.Habits.CompletedOn(hb.ID, now),
		})
	}

	for _, g := range p.Goals.List() {
		if g.Status == goal.StatusCancelled {
			continue
		}
		row := DashboardGoalDTO{
			GoalID:            g.ID,
			Title:             g.Title,
			Category:          string(g.Category),
			Status:            string(g.Status),
			CurrentValue:      g.CurrentValue,
			TargetValue:       g.TargetValue,
			CompletionPercent: g.CompletionPercent(),
			Priority:          g.Priority.Int(),
			MilestonesTotal:   len(g.Milestones),
		}
		for _, m := range g.Milestones {
			if m.IsAchieved() {
				row.MilestonesHit++
			}
		}
		dto.Goals = append(dto.Goals, row)
	}

	dto.Stats = DashboardStatsDTO{
		TotalXP:        p.Stats.TotalXP.Int(),
		Level:          p.Stats.Level.Int(),
		CurrentLevelXP: p.Stats.CurrentLevelXP.Int(),
		NextLevelXP:    p.Stats.NextLevelXP.Int(),
		CurrentStreak:  p.Stats.CurrentStreak,
		LongestStreak:  p.Stats.LongestStreak,
		Achievements:   len(p.Achievements.Earned()),
	}

	week := p.Journal.ThisWeek(now)
	var moodSum int
	for _, e := range week {
		moodSum += e.Mood.Int()
		if e.DayKey == timeutil.DayKey(now) {
			dto.Journal.WroteToday = true
		}
	}
	dto.Journal.EntriesThisWeek = len(week)
	if len(week) > 0 {
		dto.Journal.AverageMood = float64(moodSum) / float64(len(week))
	}

	return dto, nil
}
