package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/memory"
)

var (
	ctx   = context.Background()
	now   = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC) // Wednesday
	clock = shared.FixedClock{Time: now}
)

// seedProfile persists a profile with one habit on a 2-day streak, two
// goals and two journal entries.
func seedProfile(t *testing.T, repo *memory.ProfileRepository) string {
	t.Helper()

	p, err := profile.NewProfile("Aliya", now.AddDate(0, 0, -7))
	require.NoError(t, err)

	h, err := p.Habits.Create(habit.Definition{Name: "Read", TargetValue: 20, Unit: "pages"}, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	_, err = p.Habits.Complete(h.ID, 20, "", now.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = p.Habits.Complete(h.ID, 20, "", now)
	require.NoError(t, err)

	g1, err := p.Goals.Create(goal.Definition{Title: "Run 100 km", TargetValue: 100, Priority: 3}, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	_, err = p.Goals.RecordProgress(g1.ID, 100)
	require.NoError(t, err)
	_, err = p.Goals.Create(goal.Definition{Title: "Read 12 books", TargetValue: 12, Priority: 1}, now.AddDate(0, 0, -6))
	require.NoError(t, err)

	_, err = p.Journal.Add(journal.Draft{Mood: 9, Content: "flow state"}, now)
	require.NoError(t, err)
	_, err = p.Journal.Add(journal.Draft{Mood: 3, Content: "rough", Date: now.AddDate(0, 0, -10)}, now)
	require.NoError(t, err)

	p.Stats.AddXP(120)
	p.RefreshStats()

	require.NoError(t, repo.Create(ctx, p.ToSnapshot()))
	return p.ID
}

func TestGetDashboard(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	h := NewGetDashboardHandler(repo, clock)

	dto, err := h.Handle(ctx, GetDashboardQuery{ProfileID: id})
	require.NoError(t, err)

	assert.Equal(t, id, dto.ProfileID)
	assert.Equal(t, "Aliya", dto.DisplayName)
	assert.Equal(t, "2025-03-05", dto.Date)

	require.Len(t, dto.Habits, 1)
	assert.Equal(t, 2, dto.Habits[0].Streak)
	assert.True(t, dto.Habits[0].CompletedToday)

	require.Len(t, dto.Goals, 2)
	completed := dto.Goals[0]
	if completed.Status != string(goal.StatusCompleted) {
		completed = dto.Goals[1]
	}
	assert.Equal(t, 100.0, completed.CompletionPercent)

	assert.Equal(t, 120, dto.Stats.TotalXP)
	assert.Equal(t, 2, dto.Stats.Level)
	assert.Equal(t, 20, dto.Stats.CurrentLevelXP)
	assert.Equal(t, 2, dto.Stats.CurrentStreak)

	// Only the in-week entry counts; it was written today.
	assert.Equal(t, 1, dto.Journal.EntriesThisWeek)
	assert.True(t, dto.Journal.WroteToday)
	assert.InDelta(t, 9.0, dto.Journal.AverageMood, 0.001)
}

func TestGetDashboardUnknownProfile(t *testing.T) {
	h := NewGetDashboardHandler(memory.NewProfileRepository(), clock)
	_, err := h.Handle(ctx, GetDashboardQuery{ProfileID: "missing"})
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

// fakeStatsCache records cache traffic for assertions.
type fakeStatsCache struct {
	stored map[string]*StatsDTO
	gets   int
	sets   int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stored: make(map[string]*StatsDTO)}
}

func (c *fakeStatsCache) Get(_ context.Context, profileID string) (*StatsDTO, error) {
	c.gets++
	return c.stored[profileID], nil
}

func (c *fakeStatsCache) Set(_ context.Context, profileID string, stats *StatsDTO) error {
	c.sets++
	c.stored[profileID] = stats
	return nil
}

func (c *fakeStatsCache) Invalidate(_ context.Context, profileID string) error {
	delete(c.stored, profileID)
	return nil
}

func TestGetStatsPopulatesCache(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	cache := newFakeStatsCache()
	h := NewGetStatsHandler(repo, cache)

	dto, err := h.Handle(ctx, GetStatsQuery{ProfileID: id})
	require.NoError(t, err)

	assert.Equal(t, 120, dto.TotalXP)
	assert.Equal(t, 2, dto.Level)
	assert.Equal(t, 1, dto.HabitCount)
	assert.Equal(t, 2, dto.GoalCount)
	assert.Equal(t, 1, dto.CompletedGoals)
	assert.Equal(t, 2, dto.JournalEntries)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache.
	cached, err := h.Handle(ctx, GetStatsQuery{ProfileID: id})
	require.NoError(t, err)
	assert.Same(t, cache.stored[id], cached)
	assert.Equal(t, 1, cache.sets)
}

func TestGetStatsBypassCache(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	cache := newFakeStatsCache()
	cache.stored[id] = &StatsDTO{ProfileID: id, TotalXP: 999999}
	h := NewGetStatsHandler(repo, cache)

	dto, err := h.Handle(ctx, GetStatsQuery{ProfileID: id, BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, 120, dto.TotalXP)
}

func TestGetMoodSummary(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	h := NewGetMoodSummaryHandler(repo, clock)

	dto, err := h.Handle(ctx, GetMoodSummaryQuery{ProfileID: id})
	require.NoError(t, err)

	assert.Equal(t, 2, dto.TotalEntries)
	assert.Equal(t, 1, dto.HighDays)
	assert.Equal(t, 1, dto.LowDays)
	assert.InDelta(t, 6.0, dto.AverageMood, 0.001)
	require.Len(t, dto.ThisWeek, 1)
	assert.Equal(t, 9, dto.ThisWeek[0].Mood)
}

func TestListGoalsSortsByPriority(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	h := NewListHandler(repo)

	goals, err := h.Goals(ctx, ListGoalsQuery{ProfileID: id})
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Run 100 km", goals[0].Title) // priority 3 first

	completed, err := h.Goals(ctx, ListGoalsQuery{ProfileID: id, Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)

	_, err = h.Goals(ctx, ListGoalsQuery{ProfileID: id, Status: "bogus"})
	assert.Error(t, err)
}

func TestListJournalNewestFirst(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	h := NewListHandler(repo)

	entries, err := h.Journal(ctx, ListJournalQuery{ProfileID: id})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-05", entries[0].DayKey)

	limited, err := h.Journal(ctx, ListJournalQuery{ProfileID: id, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListHabitsActiveOnly(t *testing.T) {
	repo := memory.NewProfileRepository()
	id := seedProfile(t, repo)
	h := NewListHandler(repo)

	all, err := h.Habits(ctx, ListHabitsQuery{ProfileID: id})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := h.Habits(ctx, ListHabitsQuery{ProfileID: id, ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
