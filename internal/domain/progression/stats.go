// Package progression contains the progression engine: the XP/level state of
// a profile and the rules that convert XP deltas into level-up results.
//
// Level is always a pure function of total XP (flat cost of 100 XP per
// level), recomputed after every change and never mutated independently.
package progression

import (
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// UserStats is the gamification state of one profile. The habit/goal/journal
// counts are denormalized for display and refreshed by the profile aggregate
// after every mutation.
type UserStats struct {
	// TotalXP - accumulated experience points, never negative.
	TotalXP shared.XP

	// Level - derived tier, always TotalXP/100 + 1.
	Level shared.Level

	// CurrentLevelXP - XP earned within the current level: TotalXP mod 100.
	CurrentLevelXP shared.XP

	// NextLevelXP - XP required for the next level. Always 100 under the
	// flat per-level cost model.
	NextLevelXP shared.XP

	// CurrentStreak - highest current streak across all habits.
	CurrentStreak int

	// LongestStreak - highest streak ever reached across all habits.
	LongestStreak int

	// TotalHabits / ActiveHabits / CompletedGoals / JournalEntries -
	// denormalized collection counts.
	TotalHabits    int
	ActiveHabits   int
	CompletedGoals int
	JournalEntries int
}

// NewUserStats returns the stats of a fresh profile: zero XP, level 1.
func NewUserStats() *UserStats {
	s := &UserStats{}
	s.recompute()
	return s
}

// recompute derives Level, CurrentLevelXP and NextLevelXP from TotalXP.
func (s *UserStats) recompute() {
	s.Level = s.TotalXP.Level()
	s.CurrentLevelXP = s.TotalXP.WithinLevel()
	s.NextLevelXP = shared.LevelSize
}

// XPResult describes the outcome of an AddXP call.
type XPResult struct {
	// Applied is the delta actually applied after flooring at zero total.
	Applied int

	// NewTotal is the total XP after the change.
	NewTotal shared.XP

	// LeveledUp is true when the change crossed one or more level
	// thresholds. A single result reports the final level only.
	LeveledUp bool

	// OldLevel / NewLevel are the levels before and after the change.
	OldLevel shared.Level
	NewLevel shared.Level
}

// AddXP applies a (possibly negative) XP delta. The total is floored at
// zero; level and within-level XP are recomputed as pure functions of the
// new total. Callers apply any settings multiplier before calling - the
// engine only accumulates already-scaled XP.
func (s *UserStats) AddXP(amount int) XPResult {
	res := XPResult{OldLevel: s.Level}

	oldTotal := s.TotalXP
	s.TotalXP = s.TotalXP.Add(amount)
	s.recompute()

	res.Applied = int(s.TotalXP - oldTotal)
	res.NewTotal = s.TotalXP
	res.NewLevel = s.Level
	res.LeveledUp = s.Level > res.OldLevel
	return res
}

// CheckInvariants verifies that the derived fields match TotalXP. A
// violation indicates an engine bug, not bad input.
func (s *UserStats) CheckInvariants() error {
	if s.TotalXP < 0 {
		return shared.NewDomainError("progression", "CheckInvariants", shared.ErrInvariantViolation,
			"negative total XP")
	}
	if s.Level != s.TotalXP.Level() || s.CurrentLevelXP != s.TotalXP.WithinLevel() {
		return shared.NewDomainError("progression", "CheckInvariants", shared.ErrInvariantViolation,
			"level fields out of sync with total XP")
	}
	return nil
}

// Clone creates a copy of the stats.
func (s *UserStats) Clone() *UserStats {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
