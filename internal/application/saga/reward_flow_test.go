package saga

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// recordingBus captures published events.
type recordingBus struct {
	events []shared.Event
}

func (b *recordingBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestProfile(t *testing.T) *profile.UserProfile {
	t.Helper()
	p, err := profile.NewProfile("Aliya", start)
	require.NoError(t, err)
	return p
}

func completeOn(t *testing.T, p *profile.UserProfile, habitID string, day time.Time) *habit.CompletionResult {
	t.Helper()
	res, err := p.Habits.Complete(habitID, 1, "", day)
	require.NoError(t, err)
	return res
}

func TestExecuteAwardsBaseXPAndFirstBadge(t *testing.T) {
	p := newTestProfile(t)
	bus := &recordingBus{}
	flow := NewRewardFlow(bus, nil, DefaultRewardConfig())

	h, err := p.Habits.Create(habit.Definition{Name: "Read"}, start)
	require.NoError(t, err)
	cr := completeOn(t, p, h.ID, start)

	res, err := flow.Execute(context.Background(), p, RewardInput{
		Source:        SourceHabitCompletion,
		TriggerEvents: cr.Events,
	}, start)
	require.NoError(t, err)

	// 10 base + 25 for the first-step badge.
	assert.Equal(t, 35, res.XPAwarded)
	assert.Equal(t, 35, res.NewTotalXP)
	assert.False(t, res.LeveledUp)
	require.True(t, res.HasGrants())
	assert.Equal(t, "first-step", res.Grants[0].BadgeID)

	// Trigger events, XP gains and the badge grant all reach the bus.
	assert.Equal(t, len(res.Events), len(bus.events))
	assert.True(t, p.Achievements.HasBadge("first-step"))
}

func TestExecuteScalesByMultiplier(t *testing.T) {
	p := newTestProfile(t)
	require.NoError(t, p.Settings.ApplyNeurotypePreset(shared.NeurotypeADHD))
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())

	res, err := flow.Execute(context.Background(), p, RewardInput{Source: SourceJournalEntry}, start)
	require.NoError(t, err)

	// Base 25 scaled by 1.5 = 38 (rounded half up). No badges: the journal
	// ledger is still empty, only the base award applies.
	assert.Equal(t, 38, res.XPAwarded)
	assert.False(t, res.HasGrants())
}

func TestExecuteGrantsConsistencyExactlyOnce(t *testing.T) {
	p := newTestProfile(t)
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())
	h, err := p.Habits.Create(habit.Definition{Name: "Read"}, start)
	require.NoError(t, err)

	var last *RewardResult
	for d := 0; d < 4; d++ {
		day := start.AddDate(0, 0, d)
		cr := completeOn(t, p, h.ID, day)
		last, err = flow.Execute(context.Background(), p, RewardInput{
			Source:        SourceHabitCompletion,
			TriggerEvents: cr.Events,
		}, day)
		require.NoError(t, err)

		if d == 2 {
			// Streak reached 3: consistency fires here and never again.
			require.True(t, last.HasGrants())
			assert.Equal(t, "consistency", last.Grants[0].BadgeID)
		}
	}

	assert.False(t, last.HasGrants())
	// day1: 10+25, day2: 10, day3: 10+50, day4: 10.
	assert.Equal(t, 115, p.Stats.TotalXP.Int())
	assert.Equal(t, shared.Level(2), p.Stats.Level)
}

func TestExecuteReportsFinalLevelOnly(t *testing.T) {
	p := newTestProfile(t)
	bus := &recordingBus{}
	flow := NewRewardFlow(bus, nil, DefaultRewardConfig())

	res, err := flow.Execute(context.Background(), p, RewardInput{
		Source:       SourceManual,
		ManualAmount: 250,
	}, start)
	require.NoError(t, err)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.OldLevel)
	assert.Equal(t, 3, res.NewLevel)

	levelUps := 0
	for _, ev := range res.Events {
		if ev.EventType() == shared.EventLevelUp {
			levelUps++
		}
	}
	assert.Equal(t, 1, levelUps)
}

func TestExecuteManualNegativeFloorsAtZero(t *testing.T) {
	p := newTestProfile(t)
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())

	_, err := flow.Execute(context.Background(), p, RewardInput{Source: SourceManual, ManualAmount: 30}, start)
	require.NoError(t, err)

	res, err := flow.Execute(context.Background(), p, RewardInput{Source: SourceManual, ManualAmount: -100}, start)
	require.NoError(t, err)

	assert.Equal(t, -30, res.XPAwarded)
	assert.Equal(t, 0, res.NewTotalXP)
	assert.Equal(t, 0, p.Stats.TotalXP.Int())
}

func TestExecuteManualBypassesMultiplier(t *testing.T) {
	p := newTestProfile(t)
	require.NoError(t, p.Settings.ApplyNeurotypePreset(shared.NeurotypeADHD))
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())

	res, err := flow.Execute(context.Background(), p, RewardInput{Source: SourceManual, ManualAmount: 30}, start)
	require.NoError(t, err)

	// Corrections are bookkeeping: 30 stays 30 despite the 1.5x preset.
	assert.Equal(t, 30, res.XPAwarded)
	assert.Equal(t, 30, p.Stats.TotalXP.Int())
}

func TestExecuteSkipBaseXPStillEvaluates(t *testing.T) {
	p := newTestProfile(t)
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())
	_, err := p.Habits.Create(habit.Definition{Name: "Read"}, start)
	require.NoError(t, err)

	res, err := flow.Execute(context.Background(), p, RewardInput{
		Source:     SourceHabitCompletion,
		SkipBaseXP: true,
	}, start)
	require.NoError(t, err)

	// No base award, but the habit exists so first-step still fires.
	require.True(t, res.HasGrants())
	assert.Equal(t, "first-step", res.Grants[0].BadgeID)
	assert.Equal(t, 25, res.XPAwarded)
}

func TestExecuteHonorsGrantLimit(t *testing.T) {
	p := newTestProfile(t)
	config := DefaultRewardConfig()
	config.MaxGrantsPerRun = 1
	flow := NewRewardFlow(nil, nil, config)

	h, err := p.Habits.Create(habit.Definition{Name: "Read"}, start)
	require.NoError(t, err)
	for d := 0; d < 3; d++ {
		completeOn(t, p, h.ID, start.AddDate(0, 0, d))
	}

	// Both first-step and consistency are eligible; only one may be granted.
	res, err := flow.Execute(context.Background(), p, RewardInput{
		Source:     SourceHabitCompletion,
		SkipBaseXP: true,
	}, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Len(t, res.Grants, 1)
	assert.Equal(t, "first-step", res.Grants[0].BadgeID)
	assert.Equal(t, 25, res.XPAwarded)

	// The over-budget rule is deferred, not swallowed: it is still
	// ungranted and pays out in full on the next run.
	assert.False(t, p.Achievements.HasBadge("consistency"))

	res, err = flow.Execute(context.Background(), p, RewardInput{
		Source:     SourceHabitCompletion,
		SkipBaseXP: true,
	}, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	require.Len(t, res.Grants, 1)
	assert.Equal(t, "consistency", res.Grants[0].BadgeID)
	assert.Equal(t, 50, res.XPAwarded)
	assert.Equal(t, 75, p.Stats.TotalXP.Int())
}

func TestExecuteNilProfile(t *testing.T) {
	flow := NewRewardFlow(nil, nil, DefaultRewardConfig())

	_, err := flow.Execute(context.Background(), nil, RewardInput{Source: SourceManual, ManualAmount: 1}, start)
	require.Error(t, err)

	var flowErr *RewardFlowError
	assert.ErrorAs(t, err, &flowErr)
}
