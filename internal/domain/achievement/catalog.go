// Package achievement contains the achievement catalog and evaluator. The
// catalog is data, not code: each rule pairs a stable badge id with a
// predicate over a snapshot of the combined ledger state, so new badges can
// be added without touching the evaluator.
package achievement

import (
	"time"
)

// Category classifies what an achievement recognizes.
type Category string

const (
	CategoryStreak  Category = "streak"
	CategoryHabit   Category = "habit"
	CategoryGoal    Category = "goal"
	CategoryJournal Category = "journal"
	CategorySpecial Category = "special"
)

// Tier is the weight class of an achievement.
type Tier string

const (
	TierMicro Tier = "micro"
	TierMacro Tier = "macro"
	TierMeta  Tier = "meta"
)

// Achievement is a granted badge. A given badge id is granted at most once
// per profile.
type Achievement struct {
	// ID - unique identifier of this grant.
	ID string

	// BadgeID - stable catalog key used for dedup.
	BadgeID string

	Title       string
	Description string
	Category    Category
	Tier        Tier

	// XPReward - bonus XP awarded when the badge is granted.
	XPReward int

	// EarnedAt - when the badge was granted.
	EarnedAt time.Time
}

// Snapshot is the view of the combined ledger state that rule predicates
// evaluate against. It is assembled by the profile aggregate after each
// mutation.
type Snapshot struct {
	// Habits
	HabitCount    int
	ActiveHabits  int
	MaxStreak     int
	BestStreak    int
	TotalEntries  int

	// Goals
	GoalCount      int
	CompletedGoals int
	MilestonesHit  int

	// Journal
	JournalEntries int

	// Progression
	TotalXP int
	Level   int
}

// Rule is one catalog entry: a badge plus the predicate that grants it.
type Rule struct {
	BadgeID     string
	Title       string
	Description string
	Category    Category
	Tier        Tier
	XPReward    int

	// Satisfied reports whether the current state earns the badge.
	Satisfied func(s Snapshot) bool
}

// DefaultCatalog returns the built-in rule catalog in grant-evaluation
// order. Badge ids are unique keys; several rules may fire in one pass.
func DefaultCatalog() []Rule {
	return []Rule{
		{
			BadgeID:     "first-step",
			Title:       "First Step",
			Description: "Started tracking your first habit",
			Category:    CategoryHabit,
			Tier:        TierMicro,
			XPReward:    25,
			Satisfied:   func(s Snapshot) bool { return s.HabitCount >= 1 },
		},
		{
			BadgeID:     "consistency",
			Title:       "Consistency",
			Description: "Completed a habit 3 days in a row",
			Category:    CategoryStreak,
			Tier:        TierMicro,
			XPReward:    50,
			Satisfied:   func(s Snapshot) bool { return s.MaxStreak >= 3 },
		},
		{
			BadgeID:     "week-of-fire",
			Title:       "Week of Fire",
			Description: "Completed a habit 7 days in a row",
			Category:    CategoryStreak,
			Tier:        TierMacro,
			XPReward:    100,
			Satisfied:   func(s Snapshot) bool { return s.MaxStreak >= 7 },
		},
		{
			BadgeID:     "iron-will",
			Title:       "Iron Will",
			Description: "Completed a habit 30 days in a row",
			Category:    CategoryStreak,
			Tier:        TierMeta,
			XPReward:    500,
			Satisfied:   func(s Snapshot) bool { return s.MaxStreak >= 30 },
		},
		{
			BadgeID:     "goal-getter",
			Title:       "Goal Getter",
			Description: "Completed your first goal",
			Category:    CategoryGoal,
			Tier:        TierMacro,
			XPReward:    75,
			Satisfied:   func(s Snapshot) bool { return s.CompletedGoals >= 1 },
		},
		{
			BadgeID:     "milestone-marker",
			Title:       "Milestone Marker",
			Description: "Achieved your first milestone",
			Category:    CategoryGoal,
			Tier:        TierMicro,
			XPReward:    30,
			Satisfied:   func(s Snapshot) bool { return s.MilestonesHit >= 1 },
		},
		{
			BadgeID:     "reflective",
			Title:       "Reflective",
			Description: "Wrote your first journal entry",
			Category:    CategoryJournal,
			Tier:        TierMicro,
			XPReward:    25,
			Satisfied:   func(s Snapshot) bool { return s.JournalEntries >= 1 },
		},
		{
			BadgeID:     "deep-thinker",
			Title:       "Deep Thinker",
			Description: "Wrote 10 journal entries",
			Category:    CategoryJournal,
			Tier:        TierMacro,
			XPReward:    100,
			Satisfied:   func(s Snapshot) bool { return s.JournalEntries >= 10 },
		},
		{
			BadgeID:     "apprentice",
			Title:       "Apprentice",
			Description: "Reached level 5",
			Category:    CategorySpecial,
			Tier:        TierMacro,
			XPReward:    100,
			Satisfied:   func(s Snapshot) bool { return s.Level >= 5 },
		},
		{
			BadgeID:     "master",
			Title:       "Master",
			Description: "Reached level 10",
			Category:    CategorySpecial,
			Tier:        TierMeta,
			XPReward:    250,
			Satisfied:   func(s Snapshot) bool { return s.Level >= 10 },
		},
	}
}

// FindRule returns the catalog rule for a badge id.
func FindRule(catalog []Rule, badgeID string) (Rule, bool) {
	for _, r := range catalog {
		if r.BadgeID == badgeID {
			return r, true
		}
	}
	return Rule{}, false
}
