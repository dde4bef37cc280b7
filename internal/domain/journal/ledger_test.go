package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

var now = time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC) // Wednesday

func TestAddRejectsEmptyDraft(t *testing.T) {
	l := NewLedger("profile-1")

	_, err := l.Add(Draft{Mood: 5}, now)
	assert.ErrorIs(t, err, shared.ErrEmptyEntry)

	// Gratitude alone is enough.
	res, err := l.Add(Draft{Mood: 5, Gratitude: "coffee"}, now)
	require.NoError(t, err)
	assert.Equal(t, "coffee", res.Entry.Gratitude)
}

func TestAddClampsMood(t *testing.T) {
	l := NewLedger("profile-1")

	res, err := l.Add(Draft{Mood: 42, Content: "great day"}, now)
	require.NoError(t, err)
	assert.Equal(t, shared.Mood(10), res.Entry.Mood)

	res, err = l.Add(Draft{Mood: -1, Content: "rough day"}, now)
	require.NoError(t, err)
	assert.Equal(t, shared.Mood(1), res.Entry.Mood)
}

func TestAddKeysEntryByDate(t *testing.T) {
	l := NewLedger("profile-1")

	about := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := l.Add(Draft{Mood: 6, Content: "backfilled", Date: about}, now)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", res.Entry.DayKey)
	assert.NotEmpty(t, res.Events)
	assert.Len(t, l.ForDay(about), 1)
}

func TestUpdateEntry(t *testing.T) {
	l := NewLedger("profile-1")
	res, _ := l.Add(Draft{Mood: 5, Content: "draft"}, now)

	mood := 9
	content := "revised"
	updated, err := l.Update(res.Entry.ID, Update{Mood: &mood, Content: &content})
	require.NoError(t, err)

	assert.Equal(t, shared.Mood(9), updated.Mood)
	assert.Equal(t, "revised", updated.Content)

	_, err = l.Update("nope", Update{Content: &content})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	l := NewLedger("profile-1")
	res, _ := l.Add(Draft{Mood: 5, Content: "x"}, now)

	assert.True(t, l.Delete(res.Entry.ID))
	assert.False(t, l.Delete(res.Entry.ID))
	assert.Equal(t, 0, l.Count())
}

func TestStats(t *testing.T) {
	l := NewLedger("profile-1")

	empty := l.Stats()
	assert.Equal(t, 0.0, empty.AverageMood)
	assert.Equal(t, 0, empty.TotalEntries)

	moods := []int{9, 8, 4, 3, 6}
	for i, m := range moods {
		_, err := l.Add(Draft{Mood: m, Content: "entry", Date: now.AddDate(0, 0, -i)}, now)
		require.NoError(t, err)
	}

	st := l.Stats()
	assert.Equal(t, 5, st.TotalEntries)
	assert.Equal(t, 2, st.HighDays)
	assert.Equal(t, 2, st.LowDays)
	assert.InDelta(t, 6.0, st.AverageMood, 0.001)
}

func TestThisWeekUsesISOWeek(t *testing.T) {
	l := NewLedger("profile-1")

	// now is Wednesday 2025-03-05; the week runs Mon 03-03 to Sun 03-09.
	inWeek := []time.Time{
		time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC),
	}
	outOfWeek := []time.Time{
		time.Date(2025, 3, 2, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC),
	}

	for _, d := range append(inWeek, outOfWeek...) {
		_, err := l.Add(Draft{Mood: 5, Content: "entry", Date: d}, now)
		require.NoError(t, err)
	}

	assert.Len(t, l.ThisWeek(now), 2)
}
