// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven composition of the engine.
// Each event represents something significant that happened in a ledger.
const (
	// Habit events
	EventHabitCreated   EventType = "habit.created"
	EventHabitCompleted EventType = "habit.completed"
	EventHabitDeleted   EventType = "habit.deleted"
	EventStreakBroken   EventType = "habit.streak_broken"

	// Goal events
	EventGoalCreated         EventType = "goal.created"
	EventGoalProgressUpdated EventType = "goal.progress_updated"
	EventGoalCompleted       EventType = "goal.completed"
	EventGoalDeleted         EventType = "goal.deleted"
	EventMilestoneAchieved   EventType = "goal.milestone_achieved"

	// Journal events
	EventJournalEntryAdded EventType = "journal.entry_added"

	// Progression events
	EventXPGained EventType = "progression.xp_gained"
	EventLevelUp  EventType = "progression.level_up"

	// Achievement events
	EventAchievementGranted EventType = "achievement.granted"

	// Profile events
	EventProfileCreated  EventType = "profile.created"
	EventSettingsChanged EventType = "profile.settings_changed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the profile that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, profileID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: profileID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Habit Events
// ═══════════════════════════════════════════════════════════════════════════

// HabitCompletedEvent is emitted when a habit is completed for the first
// time on a calendar day. Duplicate same-day completions emit nothing.
type HabitCompletedEvent struct {
	BaseEvent
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name"`
	NewStreak int    `json:"new_streak"`
	DayKey    string `json:"day_key"`
}

// Payload implements Event interface.
func (e HabitCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"habit_id":   e.HabitID,
		"habit_name": e.HabitName,
		"new_streak": e.NewStreak,
		"day_key":    e.DayKey,
	}
}

// NewHabitCompletedEvent creates a new HabitCompletedEvent.
func NewHabitCompletedEvent(profileID, habitID, habitName string, newStreak int, dayKey string) HabitCompletedEvent {
	return HabitCompletedEvent{
		BaseEvent: NewBaseEvent(EventHabitCompleted, profileID),
		HabitID:   habitID,
		HabitName: habitName,
		NewStreak: newStreak,
		DayKey:    dayKey,
	}
}

// StreakBrokenEvent is emitted when a completion arrives after one or more
// missed days and the streak restarts.
type StreakBrokenEvent struct {
	BaseEvent
	HabitID        string `json:"habit_id"`
	HabitName      string `json:"habit_name"`
	PreviousStreak int    `json:"previous_streak"`
	DaysMissed     int    `json:"days_missed"`
}

// Payload implements Event interface.
func (e StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"habit_id":        e.HabitID,
		"habit_name":      e.HabitName,
		"previous_streak": e.PreviousStreak,
		"days_missed":     e.DaysMissed,
	}
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(profileID, habitID, habitName string, previousStreak, daysMissed int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, profileID),
		HabitID:        habitID,
		HabitName:      habitName,
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Goal Events
// ═══════════════════════════════════════════════════════════════════════════

// GoalProgressUpdatedEvent is emitted when a goal's progress changes.
type GoalProgressUpdatedEvent struct {
	BaseEvent
	GoalID    string  `json:"goal_id"`
	GoalTitle string  `json:"goal_title"`
	NewValue  float64 `json:"new_value"`
	Target    float64 `json:"target"`
	Completed bool    `json:"completed"`
}

// Payload implements Event interface.
func (e GoalProgressUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"goal_id":    e.GoalID,
		"goal_title": e.GoalTitle,
		"new_value":  e.NewValue,
		"target":     e.Target,
		"completed":  e.Completed,
	}
}

// NewGoalProgressUpdatedEvent creates a new GoalProgressUpdatedEvent.
func NewGoalProgressUpdatedEvent(profileID, goalID, goalTitle string, newValue, target float64, completed bool) GoalProgressUpdatedEvent {
	return GoalProgressUpdatedEvent{
		BaseEvent: NewBaseEvent(EventGoalProgressUpdated, profileID),
		GoalID:    goalID,
		GoalTitle: goalTitle,
		NewValue:  newValue,
		Target:    target,
		Completed: completed,
	}
}

// GoalCompletedEvent is emitted exactly once, when an active goal reaches
// its target value.
type GoalCompletedEvent struct {
	BaseEvent
	GoalID    string `json:"goal_id"`
	GoalTitle string `json:"goal_title"`
}

// Payload implements Event interface.
func (e GoalCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"goal_id":    e.GoalID,
		"goal_title": e.GoalTitle,
	}
}

// NewGoalCompletedEvent creates a new GoalCompletedEvent.
func NewGoalCompletedEvent(profileID, goalID, goalTitle string) GoalCompletedEvent {
	return GoalCompletedEvent{
		BaseEvent: NewBaseEvent(EventGoalCompleted, profileID),
		GoalID:    goalID,
		GoalTitle: goalTitle,
	}
}

// MilestoneAchievedEvent is emitted when a milestone is explicitly completed.
type MilestoneAchievedEvent struct {
	BaseEvent
	GoalID         string `json:"goal_id"`
	MilestoneID    string `json:"milestone_id"`
	MilestoneTitle string `json:"milestone_title"`
}

// Payload implements Event interface.
func (e MilestoneAchievedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"goal_id":         e.GoalID,
		"milestone_id":    e.MilestoneID,
		"milestone_title": e.MilestoneTitle,
	}
}

// NewMilestoneAchievedEvent creates a new MilestoneAchievedEvent.
func NewMilestoneAchievedEvent(profileID, goalID, milestoneID, milestoneTitle string) MilestoneAchievedEvent {
	return MilestoneAchievedEvent{
		BaseEvent:      NewBaseEvent(EventMilestoneAchieved, profileID),
		GoalID:         goalID,
		MilestoneID:    milestoneID,
		MilestoneTitle: milestoneTitle,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Journal Events
// ═══════════════════════════════════════════════════════════════════════════

// JournalEntryAddedEvent is emitted when a journal entry is persisted.
type JournalEntryAddedEvent struct {
	BaseEvent
	EntryID string `json:"entry_id"`
	Mood    int    `json:"mood"`
	DayKey  string `json:"day_key"`
}

// Payload implements Event interface.
func (e JournalEntryAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"entry_id": e.EntryID,
		"mood":     e.Mood,
		"day_key":  e.DayKey,
	}
}

// NewJournalEntryAddedEvent creates a new JournalEntryAddedEvent.
func NewJournalEntryAddedEvent(profileID, entryID string, mood int, dayKey string) JournalEntryAddedEvent {
	return JournalEntryAddedEvent{
		BaseEvent: NewBaseEvent(EventJournalEntryAdded, profileID),
		EntryID:   entryID,
		Mood:      mood,
		DayKey:    dayKey,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progression Events
// ═══════════════════════════════════════════════════════════════════════════

// XPGainedEvent is emitted whenever XP is applied to a profile.
type XPGainedEvent struct {
	BaseEvent
	Amount   int    `json:"amount"`
	NewTotal int    `json:"new_total"`
	Source   string `json:"source"` // e.g., "habit_completion", "achievement"
}

// Payload implements Event interface.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"amount":    e.Amount,
		"new_total": e.NewTotal,
		"source":    e.Source,
	}
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(profileID string, amount, newTotal int, source string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, profileID),
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// LevelUpEvent is emitted once per XP application that crosses one or more
// level thresholds, reporting the final level only.
type LevelUpEvent struct {
	BaseEvent
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_level": e.OldLevel,
		"new_level": e.NewLevel,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(profileID string, oldLevel, newLevel int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: NewBaseEvent(EventLevelUp, profileID),
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementGrantedEvent is emitted when a badge is granted for the first time.
type AchievementGrantedEvent struct {
	BaseEvent
	BadgeID  string `json:"badge_id"`
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
}

// Payload implements Event interface.
func (e AchievementGrantedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"badge_id":  e.BadgeID,
		"title":     e.Title,
		"xp_reward": e.XPReward,
	}
}

// NewAchievementGrantedEvent creates a new AchievementGrantedEvent.
func NewAchievementGrantedEvent(profileID, badgeID, title string, xpReward int) AchievementGrantedEvent {
	return AchievementGrantedEvent{
		BaseEvent: NewBaseEvent(EventAchievementGranted, profileID),
		BadgeID:   badgeID,
		Title:     title,
		XPReward:  xpReward,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Profile Events
// ═══════════════════════════════════════════════════════════════════════════

// ProfileCreatedEvent is emitted when a new profile is initialized.
type ProfileCreatedEvent struct {
	BaseEvent
	DisplayName string `json:"display_name"`
	Neurotype   string `json:"neurotype"`
}

// Payload implements Event interface.
func (e ProfileCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"display_name": e.DisplayName,
		"neurotype":    e.Neurotype,
	}
}

// NewProfileCreatedEvent creates a new ProfileCreatedEvent.
func NewProfileCreatedEvent(profileID, displayName, neurotype string) ProfileCreatedEvent {
	return ProfileCreatedEvent{
		BaseEvent:   NewBaseEvent(EventProfileCreated, profileID),
		DisplayName: displayName,
		Neurotype:   neurotype,
	}
}

// SettingsChangedEvent is emitted when presentation settings change.
type SettingsChangedEvent struct {
	BaseEvent
	Neurotype         string `json:"neurotype"`
	NotificationLevel string `json:"notification_level"`
}

// Payload implements Event interface.
func (e SettingsChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"neurotype":          e.Neurotype,
		"notification_level": e.NotificationLevel,
	}
}

// NewSettingsChangedEvent creates a new SettingsChangedEvent.
func NewSettingsChangedEvent(profileID, neurotype, notificationLevel string) SettingsChangedEvent {
	return SettingsChangedEvent{
		BaseEvent:         NewBaseEvent(EventSettingsChanged, profileID),
		Neurotype:         neurotype,
		NotificationLevel: notificationLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
