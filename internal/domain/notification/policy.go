// Package notification decides what message to surface for a domain event.
// Delivery (toast, sound, OS integration) is entirely the consumer's concern;
// this package only produces the wording and urgency.
package notification

import (
	"fmt"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// Urgency ranks how prominently a message should be surfaced.
type Urgency string

const (
	UrgencySilent Urgency = "silent"
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Message is a rendered notification decision.
type Message struct {
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	Urgency Urgency `json:"urgency"`
	Sound   bool    `json:"sound"`
}

// Chooser picks one phrase out of a set of candidates. Injected so tests can
// pin the choice; the default takes the first candidate.
type Chooser func(candidates []string) string

// FirstChoice is the deterministic default Chooser.
func FirstChoice(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// Policy turns domain events into notification decisions, shaped by the
// user's notification level and sound preference.
type Policy struct {
	level  shared.NotificationLevel
	sound  bool
	choose Chooser
}

// NewPolicy builds a policy for the given preferences. A nil chooser falls
// back to FirstChoice.
func NewPolicy(level shared.NotificationLevel, sound bool, choose Chooser) *Policy {
	if !level.IsValid() {
		level = shared.NotificationGentle
	}
	if choose == nil {
		choose = FirstChoice
	}
	return &Policy{level: level, sound: sound, choose: choose}
}

// Decide maps an event to a message, or nil when the level suppresses it.
func (p *Policy) Decide(event shared.Event) *Message {
	switch e := event.(type) {
	case shared.HabitCompletedEvent:
		return p.habitCompleted(e)
	case shared.StreakBrokenEvent:
		return p.streakBroken(e)
	case shared.GoalCompletedEvent:
		return p.goalCompleted(e)
	case shared.MilestoneAchievedEvent:
		return p.milestoneAchieved(e)
	case shared.LevelUpEvent:
		return p.levelUp(e)
	case shared.AchievementGrantedEvent:
		return p.achievementGranted(e)
	default:
		return nil
	}
}

func (p *Policy) habitCompleted(e shared.HabitCompletedEvent) *Message {
	if p.level == shared.NotificationMinimal {
		return nil
	}
	body := p.choose(p.streakPhrases(e.NewStreak))
	return &Message{
		Title:   e.HabitName,
		Body:    body,
		Urgency: UrgencyLow,
		Sound:   false,
	}
}

func (p *Policy) streakBroken(e shared.StreakBrokenEvent) *Message {
	// Broken streaks are never celebrated and never nagged about at the
	// quieter levels.
	if p.level == shared.NotificationMinimal || p.level == shared.NotificationGentle {
		return nil
	}
	return &Message{
		Title:   "Streak reset",
		Body:    fmt.Sprintf("Your %d-day streak ended. Today is a fresh start.", e.PreviousStreak),
		Urgency: UrgencyLow,
		Sound:   false,
	}
}

func (p *Policy) goalCompleted(e shared.GoalCompletedEvent) *Message {
	return &Message{
		Title:   "Goal completed",
		Body: p.choose([]string{
			fmt.Sprintf("%q is done.", e.GoalTitle),
			fmt.Sprintf("You finished %q.", e.GoalTitle),
		}),
		Urgency: p.celebrationUrgency(),
		Sound:   p.sound,
	}
}

func (p *Policy) milestoneAchieved(e shared.MilestoneAchievedEvent) *Message {
	if p.level == shared.NotificationMinimal {
		return nil
	}
	return &Message{
		Title:   "Milestone reached",
		Body:    e.MilestoneTitle,
		Urgency: UrgencyNormal,
		Sound:   false,
	}
}

func (p *Policy) levelUp(e shared.LevelUpEvent) *Message {
	return &Message{
		Title:   fmt.Sprintf("Level %d", e.NewLevel),
		Body: p.choose([]string{
			fmt.Sprintf("You reached level %d.", e.NewLevel),
			fmt.Sprintf("Level %d unlocked. Keep going!", e.NewLevel),
		}),
		Urgency: p.celebrationUrgency(),
		Sound:   p.sound,
	}
}

func (p *Policy) achievementGranted(e shared.AchievementGrantedEvent) *Message {
	if p.level == shared.NotificationMinimal {
		return &Message{
			Title:   e.Title,
			Body:    fmt.Sprintf("+%d XP", e.XPReward),
			Urgency: UrgencySilent,
			Sound:   false,
		}
	}
	return &Message{
		Title:   "Achievement unlocked",
		Body:    fmt.Sprintf("%s (+%d XP)", e.Title, e.XPReward),
		Urgency: p.celebrationUrgency(),
		Sound:   p.sound,
	}
}

func (p *Policy) celebrationUrgency() Urgency {
	switch p.level {
	case shared.NotificationMotivating:
		return UrgencyHigh
	case shared.NotificationMinimal:
		return UrgencyLow
	default:
		return UrgencyNormal
	}
}

func (p *Policy) streakPhrases(streak int) []string {
	switch p.level {
	case shared.NotificationMotivating:
		return []string{
			fmt.Sprintf("%d days in a row. Unstoppable!", streak),
			fmt.Sprintf("Streak at %d and climbing!", streak),
		}
	case shared.NotificationEncouraging:
		return []string{
			fmt.Sprintf("Nice work. %d days in a row.", streak),
			fmt.Sprintf("That makes %d in a row.", streak),
		}
	default:
		return []string{fmt.Sprintf("Done. Streak: %d.", streak)}
	}
}
