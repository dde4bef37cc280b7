package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

func TestHabitCompletedMessage(t *testing.T) {
	p := NewPolicy(shared.NotificationEncouraging, true, nil)

	msg := p.Decide(shared.NewHabitCompletedEvent("profile-1", "h1", "Read", 4, "2025-03-07"))
	require.NotNil(t, msg)
	assert.Equal(t, "Read", msg.Title)
	assert.Equal(t, "Nice work. 4 days in a row.", msg.Body)
	assert.Equal(t, UrgencyLow, msg.Urgency)
	assert.False(t, msg.Sound)
}

func TestHabitCompletedSuppressedAtMinimal(t *testing.T) {
	p := NewPolicy(shared.NotificationMinimal, true, nil)

	msg := p.Decide(shared.NewHabitCompletedEvent("profile-1", "h1", "Read", 4, "2025-03-07"))
	assert.Nil(t, msg)
}

func TestStreakBrokenSuppressedAtQuietLevels(t *testing.T) {
	for _, level := range []shared.NotificationLevel{shared.NotificationMinimal, shared.NotificationGentle} {
		p := NewPolicy(level, false, nil)
		assert.Nil(t, p.Decide(shared.NewStreakBrokenEvent("profile-1", "h1", "Read", 5, 2)), string(level))
	}

	p := NewPolicy(shared.NotificationEncouraging, false, nil)
	msg := p.Decide(shared.NewStreakBrokenEvent("profile-1", "h1", "Read", 5, 2))
	require.NotNil(t, msg)
	assert.Equal(t, "Streak reset", msg.Title)
	assert.Contains(t, msg.Body, "5-day streak")
}

func TestLevelUpUrgencyFollowsLevel(t *testing.T) {
	ev := shared.NewLevelUpEvent("profile-1", 2, 3)

	motivating := NewPolicy(shared.NotificationMotivating, true, nil).Decide(ev)
	require.NotNil(t, motivating)
	assert.Equal(t, UrgencyHigh, motivating.Urgency)
	assert.True(t, motivating.Sound)

	gentle := NewPolicy(shared.NotificationGentle, false, nil).Decide(ev)
	require.NotNil(t, gentle)
	assert.Equal(t, UrgencyNormal, gentle.Urgency)
	assert.False(t, gentle.Sound)
}

func TestAchievementGrantedAtMinimalIsSilent(t *testing.T) {
	p := NewPolicy(shared.NotificationMinimal, true, nil)

	msg := p.Decide(shared.NewAchievementGrantedEvent("profile-1", "consistency", "Consistency", 50))
	require.NotNil(t, msg)
	assert.Equal(t, "Consistency", msg.Title)
	assert.Equal(t, "+50 XP", msg.Body)
	assert.Equal(t, UrgencySilent, msg.Urgency)
	assert.False(t, msg.Sound)
}

func TestAchievementGrantedCelebrates(t *testing.T) {
	p := NewPolicy(shared.NotificationMotivating, true, nil)

	msg := p.Decide(shared.NewAchievementGrantedEvent("profile-1", "consistency", "Consistency", 50))
	require.NotNil(t, msg)
	assert.Equal(t, "Achievement unlocked", msg.Title)
	assert.Equal(t, "Consistency (+50 XP)", msg.Body)
	assert.Equal(t, UrgencyHigh, msg.Urgency)
	assert.True(t, msg.Sound)
}

func TestGoalCompletedUsesChooser(t *testing.T) {
	second := func(candidates []string) string { return candidates[len(candidates)-1] }
	p := NewPolicy(shared.NotificationGentle, false, second)

	msg := p.Decide(shared.NewGoalCompletedEvent("profile-1", "g1", "Run 100 km"))
	require.NotNil(t, msg)
	assert.Equal(t, `You finished "Run 100 km".`, msg.Body)
}

func TestUnknownEventProducesNothing(t *testing.T) {
	p := NewPolicy(shared.NotificationMotivating, true, nil)
	assert.Nil(t, p.Decide(shared.NewProfileCreatedEvent("profile-1", "Aliya", "adhd")))
}

func TestFirstChoice(t *testing.T) {
	assert.Equal(t, "a", FirstChoice([]string{"a", "b"}))
	assert.Equal(t, "", FirstChoice(nil))
}
