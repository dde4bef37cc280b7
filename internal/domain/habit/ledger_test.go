package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC)
}

func TestCreateAppliesDefaults(t *testing.T) {
	l := NewLedger("profile-1")

	h, err := l.Create(Definition{Name: "Read"}, day(1))
	require.NoError(t, err)

	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "Read", h.Name)
	assert.Equal(t, FrequencyDaily, h.Frequency)
	assert.Equal(t, 1.0, h.TargetValue)
	assert.True(t, h.IsActive)
	assert.Equal(t, 0, h.Streak)
	assert.Equal(t, 1, l.Count())
}

func TestCreateRejectsEmptyName(t *testing.T) {
	l := NewLedger("profile-1")

	_, err := l.Create(Definition{Name: "   "}, day(1))
	assert.ErrorIs(t, err, shared.ErrEmptyHabitName)

	_, err = l.Create(Definition{Name: "Read", Frequency: "hourly"}, day(1))
	assert.ErrorIs(t, err, shared.ErrInvalidFrequency)
}

func TestCompleteStartsStreak(t *testing.T) {
	l := NewLedger("profile-1")
	h, err := l.Create(Definition{Name: "Read", TargetValue: 20, Unit: "pages"}, day(1))
	require.NoError(t, err)

	res, err := l.Complete(h.ID, 0, "", day(1))
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.NewStreak)
	assert.False(t, res.StreakBroken)
	require.NotNil(t, res.Entry)
	// Zero value falls back to the habit's target.
	assert.Equal(t, 20.0, res.Entry.Value)
	assert.NotEmpty(t, res.Events)
}

func TestCompleteSameDayIsIdempotent(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))

	first, err := l.Complete(h.ID, 1, "", day(1))
	require.NoError(t, err)
	require.True(t, first.Completed)

	// Later the same day: no new entry, no streak change, no events.
	repeat, err := l.Complete(h.ID, 1, "", day(1).Add(6*time.Hour))
	require.NoError(t, err)
	assert.False(t, repeat.Completed)
	assert.Nil(t, repeat.Entry)
	assert.Equal(t, 1, repeat.NewStreak)
	assert.Empty(t, repeat.Events)
	assert.Len(t, l.Entries(), 1)
}

func TestCompleteNextDayExtendsStreak(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))

	for d := 1; d <= 3; d++ {
		res, err := l.Complete(h.ID, 1, "", day(d))
		require.NoError(t, err)
		assert.Equal(t, d, res.NewStreak)
		assert.False(t, res.StreakBroken)
	}

	got, err := l.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, 3, got.BestStreak)
}

func TestCompleteAfterGapBreaksStreak(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))

	_, err := l.Complete(h.ID, 1, "", day(1))
	require.NoError(t, err)
	_, err = l.Complete(h.ID, 1, "", day(2))
	require.NoError(t, err)

	// Skip day 3 and 4.
	res, err := l.Complete(h.ID, 1, "", day(5))
	require.NoError(t, err)

	assert.True(t, res.StreakBroken)
	assert.Equal(t, 2, res.PreviousStreak)
	assert.Equal(t, 1, res.NewStreak)
	assert.Equal(t, 2, res.DaysMissed)

	// Best streak survives the break.
	got, _ := l.Get(h.ID)
	assert.Equal(t, 2, got.BestStreak)
	assert.Equal(t, 1, got.Streak)
}

func TestCompleteUnknownHabit(t *testing.T) {
	l := NewLedger("profile-1")
	_, err := l.Complete("nope", 1, "", day(1))
	assert.ErrorIs(t, err, shared.ErrHabitNotFound)
}

func TestUpdateDoesNotTouchStreak(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))
	_, err := l.Complete(h.ID, 1, "", day(1))
	require.NoError(t, err)
	_, err = l.Complete(h.ID, 1, "", day(2))
	require.NoError(t, err)

	name := "Read fiction"
	target := 30.0
	updated, err := l.Update(h.ID, Update{Name: &name, TargetValue: &target})
	require.NoError(t, err)

	assert.Equal(t, "Read fiction", updated.Name)
	assert.Equal(t, 30.0, updated.TargetValue)
	assert.Equal(t, 2, updated.Streak)
	assert.Equal(t, 2, updated.BestStreak)
}

func TestDeleteRemovesEntries(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))
	other, _ := l.Create(Definition{Name: "Run"}, day(1))
	_, err := l.Complete(h.ID, 1, "", day(1))
	require.NoError(t, err)
	_, err = l.Complete(other.ID, 1, "", day(1))
	require.NoError(t, err)

	assert.True(t, l.Delete(h.ID))
	assert.False(t, l.Delete(h.ID))

	assert.Equal(t, 1, l.Count())
	assert.Empty(t, l.EntriesFor(h.ID))
	assert.Len(t, l.EntriesFor(other.ID), 1)
}

func TestMaxStreakAcrossHabits(t *testing.T) {
	l := NewLedger("profile-1")
	a, _ := l.Create(Definition{Name: "Read"}, day(1))
	b, _ := l.Create(Definition{Name: "Run"}, day(1))

	for d := 1; d <= 3; d++ {
		_, err := l.Complete(a.ID, 1, "", day(d))
		require.NoError(t, err)
	}
	_, err := l.Complete(b.ID, 1, "", day(3))
	require.NoError(t, err)

	assert.Equal(t, 3, l.MaxStreak())
	assert.Equal(t, 3, l.MaxBestStreak())
}

func TestCompletedOn(t *testing.T) {
	l := NewLedger("profile-1")
	h, _ := l.Create(Definition{Name: "Read"}, day(1))
	_, err := l.Complete(h.ID, 1, "", day(1))
	require.NoError(t, err)

	assert.True(t, l.CompletedOn(h.ID, day(1).Add(10*time.Hour)))
	assert.False(t, l.CompletedOn(h.ID, day(2)))
}
