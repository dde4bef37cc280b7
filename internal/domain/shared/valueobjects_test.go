package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPLevelBoundaries(t *testing.T) {
	assert.Equal(t, Level(1), XP(0).Level())
	assert.Equal(t, Level(1), XP(99).Level())
	assert.Equal(t, Level(2), XP(100).Level())
	assert.Equal(t, Level(3), XP(250).Level())
	assert.Equal(t, Level(11), XP(1000).Level())
}

func TestXPWithinLevel(t *testing.T) {
	assert.Equal(t, XP(0), XP(0).WithinLevel())
	assert.Equal(t, XP(99), XP(99).WithinLevel())
	assert.Equal(t, XP(0), XP(100).WithinLevel())
	assert.Equal(t, XP(50), XP(250).WithinLevel())
}

func TestXPAddFloorsAtZero(t *testing.T) {
	assert.Equal(t, XP(30), XP(10).Add(20))
	assert.Equal(t, XP(0), XP(10).Add(-50))
	assert.Equal(t, XP(5), XP(10).Add(-5))
}

func TestClampMood(t *testing.T) {
	assert.Equal(t, Mood(1), ClampMood(-3))
	assert.Equal(t, Mood(1), ClampMood(0))
	assert.Equal(t, Mood(7), ClampMood(7))
	assert.Equal(t, Mood(10), ClampMood(15))
}

func TestMoodHighLow(t *testing.T) {
	assert.True(t, Mood(8).IsHigh())
	assert.False(t, Mood(7).IsHigh())
	assert.True(t, Mood(4).IsLow())
	assert.False(t, Mood(5).IsLow())
}

func TestNeurotypeIsValid(t *testing.T) {
	for _, n := range []Neurotype{NeurotypeNeurotypical, NeurotypeADHD, NeurotypeAutism, NeurotypeAuDHD} {
		assert.True(t, n.IsValid(), string(n))
	}
	assert.False(t, Neurotype("bipolar").IsValid())
	assert.False(t, Neurotype("").IsValid())
}

func TestNotificationLevelIsValid(t *testing.T) {
	for _, l := range []NotificationLevel{NotificationMinimal, NotificationGentle, NotificationEncouraging, NotificationMotivating} {
		assert.True(t, l.IsValid(), string(l))
	}
	assert.False(t, NotificationLevel("loud").IsValid())
}
