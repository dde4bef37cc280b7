package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

func buildProfile(t *testing.T) *UserProfile {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	p, err := NewProfile("Aliya", now)
	require.NoError(t, err)
	require.NoError(t, p.Settings.ApplyNeurotypePreset(shared.NeurotypeADHD))
	p.PassphraseHash = []byte("$2a$10$fakehashforserialization")

	h, err := p.Habits.Create(habit.Definition{Name: "Read", TargetValue: 20, Unit: "pages"}, now)
	require.NoError(t, err)
	for d := 0; d < 3; d++ {
		_, err = p.Habits.Complete(h.ID, 20, "", now.AddDate(0, 0, d))
		require.NoError(t, err)
	}

	g, err := p.Goals.Create(goal.Definition{Title: "Run 100 km", TargetValue: 100, Unit: "km"}, now)
	require.NoError(t, err)
	_, err = p.Goals.RecordProgress(g.ID, 40)
	require.NoError(t, err)
	m, err := p.Goals.AddMilestone(g.ID, "Halfway", 50, now)
	require.NoError(t, err)
	_, err = p.Goals.CompleteMilestone(g.ID, m.ID, now)
	require.NoError(t, err)

	_, err = p.Journal.Add(journal.Draft{Mood: 8, Content: "good run", Tags: []string{"running"}}, now)
	require.NoError(t, err)

	p.Stats.AddXP(250)
	p.RefreshStats()
	p.Achievements.Evaluate(p.AchievementSnapshot(), now)
	p.Touch(now.AddDate(0, 0, 2))
	return p
}

func TestSnapshotRoundTrip(t *testing.T) {
	p := buildProfile(t)

	restored, err := FromSnapshot(p.ToSnapshot())
	require.NoError(t, err)

	assert.Equal(t, p.ID, restored.ID)
	assert.Equal(t, p.DisplayName, restored.DisplayName)
	assert.Equal(t, p.PassphraseHash, restored.PassphraseHash)
	assert.Equal(t, p.Settings, restored.Settings)
	assert.Equal(t, p.CreatedAt, restored.CreatedAt)
	assert.Equal(t, p.UpdatedAt, restored.UpdatedAt)

	// Progression: level fields are recomputed from the persisted total.
	assert.Equal(t, p.Stats.TotalXP, restored.Stats.TotalXP)
	assert.Equal(t, p.Stats.Level, restored.Stats.Level)
	assert.Equal(t, p.Stats.CurrentLevelXP, restored.Stats.CurrentLevelXP)

	// Ledgers.
	assert.Equal(t, p.Habits.Count(), restored.Habits.Count())
	assert.Equal(t, 3, restored.Habits.MaxStreak())
	assert.Len(t, restored.Habits.Entries(), 3)
	assert.Equal(t, p.Goals.Count(), restored.Goals.Count())
	assert.Equal(t, p.Journal.Count(), restored.Journal.Count())

	// Milestone achievement state survives.
	g := restored.Goals.List()[0]
	require.Len(t, g.Milestones, 1)
	assert.True(t, g.Milestones[0].IsAchieved())

	// Earned badges survive and stay deduplicated.
	assert.Equal(t, len(p.Achievements.Earned()), len(restored.Achievements.Earned()))
	for _, a := range p.Achievements.Earned() {
		assert.True(t, restored.Achievements.HasBadge(a.BadgeID), a.BadgeID)
	}
	grants := restored.Achievements.Evaluate(restored.AchievementSnapshot(), time.Now().UTC())
	assert.Empty(t, grants)

	assert.NoError(t, restored.CheckInvariants())
}

func TestSnapshotSurvivesJSON(t *testing.T) {
	p := buildProfile(t)

	raw, err := json.Marshal(p.ToSnapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	restored, err := FromSnapshot(&snap)
	require.NoError(t, err)
	assert.Equal(t, p.Stats.TotalXP, restored.Stats.TotalXP)
	assert.Equal(t, 3, restored.Habits.MaxStreak())
	assert.NoError(t, restored.CheckInvariants())
}

func TestFromSnapshotRejectsEmpty(t *testing.T) {
	_, err := FromSnapshot(nil)
	assert.Error(t, err)

	_, err = FromSnapshot(&Snapshot{})
	assert.Error(t, err)
}

func TestFromSnapshotDefaultsOnlyMultiplier(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	// A snapshot written before the gamification block existed: zero
	// multiplier, but the user's other choices are present.
	snap := &Snapshot{
		Version:     SnapshotVersion,
		ID:          "profile-1",
		DisplayName: "Aliya",
		Settings: Settings{
			Neurotype:         shared.NeurotypeAutism,
			Theme:             "dark",
			NotificationLevel: shared.NotificationMinimal,
			ReducedMotion:     true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	p, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, 1.0, p.Settings.Gamification.XPMultiplier)
	assert.Equal(t, shared.NeurotypeAutism, p.Settings.Neurotype)
	assert.Equal(t, "dark", p.Settings.Theme)
	assert.Equal(t, shared.NotificationMinimal, p.Settings.NotificationLevel)
	assert.True(t, p.Settings.ReducedMotion)
}

func TestNewProfileTrimsDisplayName(t *testing.T) {
	now := time.Now().UTC()

	p, err := NewProfile("  Aliya  ", now)
	require.NoError(t, err)
	assert.Equal(t, "Aliya", p.DisplayName)

	_, err = NewProfile("   ", now)
	assert.Error(t, err)
}

func TestRefreshStats(t *testing.T) {
	p := buildProfile(t)
	p.RefreshStats()

	assert.Equal(t, 1, p.Stats.TotalHabits)
	assert.Equal(t, 1, p.Stats.ActiveHabits)
	assert.Equal(t, 3, p.Stats.CurrentStreak)
	assert.Equal(t, 3, p.Stats.LongestStreak)
	assert.Equal(t, 1, p.Stats.JournalEntries)
	assert.Equal(t, 0, p.Stats.CompletedGoals)
}
