package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/achievement"
	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/progression"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER PROFILE AGGREGATE
// One profile owns all five sub-states. completeHabit -> addXP -> evaluate
// is a single causal chain, so the command layer serializes commands per
// profile ID for their whole duration; two chains for the same profile never
// interleave. Different profiles are fully independent. The aggregate itself
// is not safe for concurrent use.
// ══════════════════════════════════════════════════════════════════════════════

// UserProfile is the aggregate root for one user's tracked state.
type UserProfile struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// DisplayName - how the user is addressed.
	DisplayName string

	// PassphraseHash - optional bcrypt hash guarding the profile at the
	// interface boundary. Empty when the profile is not protected.
	PassphraseHash []byte

	// Settings - presentation and reward configuration.
	Settings Settings

	// Habits / Goals / Journal - the three ledgers.
	Habits  *habit.Ledger
	Goals   *goal.Ledger
	Journal *journal.Ledger

	// Stats - the progression engine state.
	Stats *progression.UserStats

	// Achievements - the achievement evaluator with earned badges.
	Achievements *achievement.Evaluator

	// CreatedAt / UpdatedAt - record timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile initializes a fresh profile: empty ledgers, zero XP at level 1,
// no achievements, default settings.
func NewProfile(displayName string, now time.Time) (*UserProfile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.NewDomainError("profile", "Create", shared.ErrEmptyValue, "display name cannot be empty")
	}

	id := uuid.NewString()
	return &UserProfile{
		ID:           id,
		DisplayName:  displayName,
		Settings:     DefaultSettings(),
		Habits:       habit.NewLedger(id),
		Goals:        goal.NewLedger(id),
		Journal:      journal.NewLedger(id),
		Stats:        progression.NewUserStats(),
		Achievements: achievement.NewEvaluator(id, achievement.DefaultCatalog()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Touch updates the modification timestamp.
func (p *UserProfile) Touch(now time.Time) {
	p.UpdatedAt = now
}

// RefreshStats re-derives the denormalized display counters from the
// ledgers. Called after every mutation, before the stats are read.
func (p *UserProfile) RefreshStats() {
	p.Stats.TotalHabits = p.Habits.Count()
	p.Stats.ActiveHabits = p.Habits.ActiveCount()
	p.Stats.CompletedGoals = p.Goals.CompletedCount()
	p.Stats.JournalEntries = p.Journal.Count()
	p.Stats.CurrentStreak = p.Habits.MaxStreak()
	p.Stats.LongestStreak = p.Habits.MaxBestStreak()
}

// AchievementSnapshot assembles the combined-state view that achievement
// rule predicates evaluate against.
func (p *UserProfile) AchievementSnapshot() achievement.Snapshot {
	milestonesHit := 0
	for _, g := range p.Goals.List() {
		for _, m := range g.Milestones {
			if m.IsAchieved() {
				milestonesHit++
			}
		}
	}

	return achievement.Snapshot{
		HabitCount:     p.Habits.Count(),
		ActiveHabits:   p.Habits.ActiveCount(),
		MaxStreak:      p.Habits.MaxStreak(),
		BestStreak:     p.Habits.MaxBestStreak(),
		TotalEntries:   len(p.Habits.Entries()),
		GoalCount:      p.Goals.Count(),
		CompletedGoals: p.Goals.CompletedCount(),
		MilestonesHit:  milestonesHit,
		JournalEntries: p.Journal.Count(),
		TotalXP:        p.Stats.TotalXP.Int(),
		Level:          p.Stats.Level.Int(),
	}
}

// CheckInvariants verifies internal consistency across the aggregate.
func (p *UserProfile) CheckInvariants() error {
	if err := p.Stats.CheckInvariants(); err != nil {
		return err
	}
	return p.Goals.CheckInvariants()
}
