package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// The progression read model. Hot path for the UI header, so it goes
// through an optional cache in front of the repository.
// ══════════════════════════════════════════════════════════════════════════════

// StatsDTO is the progression read model.
type StatsDTO struct {
	ProfileID       string    `json:"profile_id"`
	TotalXP         int       `json:"total_xp"`
	Level           int       `json:"level"`
	CurrentLevelXP  int       `json:"current_level_xp"`
	NextLevelXP     int       `json:"next_level_xp"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	HabitCount      int       `json:"habit_count"`
	ActiveHabits    int       `json:"active_habits"`
	GoalCount       int       `json:"goal_count"`
	CompletedGoals  int       `json:"completed_goals"`
	JournalEntries  int       `json:"journal_entries"`
	Achievements    int       `json:"achievements"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// StatsCache is a read-through cache in front of the repository. The Redis
// implementation lives in internal/infrastructure/persistence/redis.
type StatsCache interface {
	// Get returns the cached stats or (nil, nil) on a miss.
	Get(ctx context.Context, profileID string) (*StatsDTO, error)

	// Set stores the stats with the cache's own TTL policy.
	Set(ctx context.Context, profileID string, stats *StatsDTO) error

	// Invalidate drops the cached stats for a profile.
	Invalidate(ctx context.Context, profileID string) error
}

// GetStatsQuery contains the stats request parameters.
type GetStatsQuery struct {
	// ProfileID selects the profile.
	ProfileID string

	// BypassCache forces a repository read.
	BypassCache bool
}

// Validate validates the query.
func (q *GetStatsQuery) Validate() error {
	if q.ProfileID == "" {
		return errors.New("get_stats: profile_id is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsHandler handles the GetStatsQuery.
type GetStatsHandler struct {
	repo  profile.Repository
	cache StatsCache
}

// NewGetStatsHandler creates a new GetStatsHandler. A nil cache disables
// caching entirely.
func NewGetStatsHandler(repo profile.Repository, cache StatsCache) *GetStatsHandler {
	return &GetStatsHandler{repo: repo, cache: cache}
}

// Handle executes the stats query.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*StatsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_stats: %w", err)
	}

	if h.cache != nil && !q.BypassCache {
		if cached, err := h.cache.Get(ctx, q.ProfileID); err == nil && cached != nil {
			return cached, nil
		}
	}

	p, err := loadProfile(ctx, h.repo, q.ProfileID)
	if err != nil {
		return nil, err
	}

	dto := &StatsDTO{
		ProfileID:      p.ID,
		TotalXP:        p.Stats.TotalXP.Int(),
		Level:          p.Stats.Level.Int(),
		CurrentLevelXP: p.Stats.CurrentLevelXP.Int(),
		NextLevelXP:    p.Stats.NextLevelXP.Int(),
		CurrentStreak:  p.Stats.CurrentStreak,
		LongestStreak:  p.Stats.LongestStreak,
		HabitCount:     p.Habits.Count(),
		ActiveHabits:   p.Habits.ActiveCount(),
		GoalCount:      p.Goals.Count(),
		CompletedGoals: p.Goals.CompletedCount(),
		JournalEntries: p.Journal.Count(),
		Achievements:   len(p.Achievements.Earned()),
		GeneratedAt:    time.Now().UTC(),
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, q.ProfileID, dto)
	}

	return dto, nil
}
