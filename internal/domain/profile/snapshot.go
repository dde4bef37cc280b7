package profile

import (
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/achievement"
	"github.com/better-me-app/better-me-core/internal/domain/goal"
	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/progression"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// A serializable image of the whole aggregate. The engine is storage
// agnostic: it can be initialized from a snapshot and produces one after
// every command, for whatever persistence collaborator is wired in.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the serialized form of a UserProfile.
type Snapshot struct {
	Version        int                   `json:"version"`
	ID             string                `json:"id"`
	DisplayName    string                `json:"display_name"`
	PassphraseHash []byte                `json:"passphrase_hash,omitempty"`
	Settings       Settings              `json:"settings"`
	Habits         []HabitSnapshot       `json:"habits"`
	HabitEntries   []HabitEntrySnapshot  `json:"habit_entries"`
	Goals          []GoalSnapshot        `json:"goals"`
	JournalEntries []JournalSnapshot     `json:"journal_entries"`
	Stats          StatsSnapshot         `json:"stats"`
	Achievements   []AchievementSnapshot `json:"achievements"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// HabitSnapshot is the serialized form of a habit.
type HabitSnapshot struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Frequency     string    `json:"frequency"`
	TargetValue   float64   `json:"target_value"`
	Unit          string    `json:"unit,omitempty"`
	IsActive      bool      `json:"is_active"`
	Streak        int       `json:"streak"`
	BestStreak    int       `json:"best_streak"`
	LastCompleted time.Time `json:"last_completed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HabitEntrySnapshot is the serialized form of a completion entry.
type HabitEntrySnapshot struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	DayKey    string    `json:"day_key"`
	Value     float64   `json:"value"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GoalSnapshot is the serialized form of a goal with its milestones.
type GoalSnapshot struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Category     string              `json:"category"`
	TargetValue  float64             `json:"target_value"`
	CurrentValue float64             `json:"current_value"`
	Unit         string              `json:"unit,omitempty"`
	Deadline     time.Time           `json:"deadline,omitempty"`
	Priority     int                 `json:"priority"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Milestones   []MilestoneSnapshot `json:"milestones"`
}

// MilestoneSnapshot is the serialized form of a milestone.
type MilestoneSnapshot struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	Title       string    `json:"title"`
	TargetValue float64   `json:"target_value"`
	AchievedAt  time.Time `json:"achieved_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// JournalSnapshot is the serialized form of a journal entry.
type JournalSnapshot struct {
	ID        string    `json:"id"`
	DayKey    string    `json:"day_key"`
	Mood      int       `json:"mood"`
	Content   string    `json:"content,omitempty"`
	Gratitude string    `json:"gratitude,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsSnapshot is the serialized form of the progression state. Only the
// XP total and streak aggregates are persisted; level fields are recomputed
// on restore, never trusted from storage.
type StatsSnapshot struct {
	TotalXP       int `json:"total_xp"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// AchievementSnapshot is the serialized form of a granted badge.
type AchievementSnapshot struct {
	ID          string    `json:"id"`
	BadgeID     string    `json:"badge_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Tier        string    `json:"tier"`
	XPReward    int       `json:"xp_reward"`
	EarnedAt    time.Time `json:"earned_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Profile -> Snapshot
// ─────────────────────────────────────────────────────────────────────────────

// ToSnapshot produces a serializable image of the profile. The caller must
// hold the profile lock.
func (p *UserProfile) ToSnapshot() *Snapshot {
	snap := &Snapshot{
		Version:        SnapshotVersion,
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		PassphraseHash: p.PassphraseHash,
		Settings:       p.Settings,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Stats: StatsSnapshot{
			TotalXP:       p.Stats.TotalXP.Int(),
			CurrentStreak: p.Stats.CurrentStreak,
			LongestStreak: p.Stats.LongestStreak,
		},
	}

	for _, h := range p.Habits.List() {
		snap.Habits = append(snap.Habits, HabitSnapshot{
			ID:            h.ID,
			Name:          h.Name,
			Description:   h.Description,
			Frequency:     string(h.Frequency),
			TargetValue:   h.TargetValue,
			Unit:          h.Unit,
			IsActive:      h.IsActive,
			Streak:        h.Streak,
			BestStreak:    h.BestStreak,
			LastCompleted: h.LastCompleted,
			CreatedAt:     h.CreatedAt,
		})
	}
	for _, e := range p.Habits.Entries() {
		snap.HabitEntries = append(snap.HabitEntries, HabitEntrySnapshot{
			ID:        e.ID,
			HabitID:   e.HabitID,
			DayKey:    e.DayKey,
			Value:     e.Value,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt,
		})
	}
	for _, g := range p.Goals.List() {
		gs := GoalSnapshot{
			ID:           g.ID,
			Title:        g.Title,
			Description:  g.Description,
			Category:     string(g.Category),
			TargetValue:  g.TargetValue,
			CurrentValue: g.CurrentValue,
			Unit:         g.Unit,
			Deadline:     g.Deadline,
			Priority:     g.Priority.Int(),
			Status:       string(g.Status),
			CreatedAt:    g.CreatedAt,
		}
		for _, m := range g.Milestones {
			gs.Milestones = append(gs.Milestones, MilestoneSnapshot{
				ID:          m.ID,
				GoalID:      m.GoalID,
				Title:       m.Title,
				TargetValue: m.TargetValue,
				AchievedAt:  m.AchievedAt,
				CreatedAt:   m.CreatedAt,
			})
		}
		snap.Goals = append(snap.Goals, gs)
	}
	for _, e := range p.Journal.List() {
		snap.JournalEntries = append(snap.JournalEntries, JournalSnapshot{
			ID:        e.ID,
			DayKey:    e.DayKey,
			Mood:      e.Mood.Int(),
			Content:   e.Content,
			Gratitude: e.Gratitude,
			Tags:      e.Tags,
			CreatedAt: e.CreatedAt,
		})
	}
	for _, a := range p.Achievements.Earned() {
		snap.Achievements = append(snap.Achievements, AchievementSnapshot{
			ID:          a.ID,
			BadgeID:     a.BadgeID,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Tier:        string(a.Tier),
			XPReward:    a.XPReward,
			EarnedAt:    a.EarnedAt,
		})
	}

	return snap
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshot -> Profile
// ─────────────────────────────────────────────────────────────────────────────

// FromSnapshot rebuilds a profile from a serialized image. Level fields are
// recomputed from the persisted XP total; the display counters are
// re-derived from the ledgers.
func FromSnapshot(snap *Snapshot) (*UserProfile, error) {
	if snap == nil || snap.ID == "" {
		return nil, shared.NewDomainError("profile", "FromSnapshot", shared.ErrInvalidInput, "empty snapshot")
	}

	habits := make([]*habit.Habit, 0, len(snap.Habits))
	for _, hs := range snap.Habits {
		habits = append(habits, &habit.Habit{
			ID:            hs.ID,
			Name:          hs.Name,
			Description:   hs.Description,
			Frequency:     habit.Frequency(hs.Frequency),
			TargetValue:   hs.TargetValue,
			Unit:          hs.Unit,
			IsActive:      hs.IsActive,
			Streak:        hs.Streak,
			BestStreak:    hs.BestStreak,
			LastCompleted: hs.LastCompleted,
			CreatedAt:     hs.CreatedAt,
		})
	}
	entries := make([]*habit.Entry, 0, len(snap.HabitEntries))
	for _, es := range snap.HabitEntries {
		entries = append(entries, &habit.Entry{
			ID:        es.ID,
			HabitID:   es.HabitID,
			DayKey:    es.DayKey,
			Value:     es.Value,
			Notes:     es.Notes,
			CreatedAt: es.CreatedAt,
		})
	}

	goals := make([]*goal.Goal, 0, len(snap.Goals))
	for _, gs := range snap.Goals {
		g := &goal.Goal{
			ID:           gs.ID,
			Title:        gs.Title,
			Description:  gs.Description,
			Category:     goal.Category(gs.Category),
			TargetValue:  gs.TargetValue,
			CurrentValue: gs.CurrentValue,
			Unit:         gs.Unit,
			Deadline:     gs.Deadline,
			Priority:     shared.Priority(gs.Priority),
			Status:       goal.Status(gs.Status),
			CreatedAt:    gs.CreatedAt,
		}
		for _, ms := range gs.Milestones {
			g.Milestones = append(g.Milestones, &goal.Milestone{
				ID:          ms.ID,
				GoalID:      ms.GoalID,
				Title:       ms.Title,
				TargetValue: ms.TargetValue,
				AchievedAt:  ms.AchievedAt,
				CreatedAt:   ms.CreatedAt,
			})
		}
		goals = append(goals, g)
	}

	journalEntries := make([]*journal.Entry, 0, len(snap.JournalEntries))
	for _, js := range snap.JournalEntries {
		journalEntries = append(journalEntries, &journal.Entry{
			ID:        js.ID,
			DayKey:    js.DayKey,
			Mood:      shared.ClampMood(js.Mood),
			Content:   js.Content,
			Gratitude: js.Gratitude,
			Tags:      js.Tags,
			CreatedAt: js.CreatedAt,
		})
	}

	earned := make([]*achievement.Achievement, 0, len(snap.Achievements))
	for _, as := range snap.Achievements {
		earned = append(earned, &achievement.Achievement{
			ID:          as.ID,
			BadgeID:     as.BadgeID,
			Title:       as.Title,
			Description: as.Description,
			Category:    achievement.Category(as.Category),
			Tier:        achievement.Tier(as.Tier),
			XPReward:    as.XPReward,
			EarnedAt:    as.EarnedAt,
		})
	}

	stats := progression.NewUserStats()
	stats.AddXP(snap.Stats.TotalXP)
	stats.LongestStreak = snap.Stats.LongestStreak

	// Snapshots written before the gamification block carry a zero
	// multiplier. Default only that field; the stored neurotype, theme and
	// notification level are still authoritative.
	settings := snap.Settings
	if settings.Gamification.XPMultiplier == 0 {
		settings.Gamification.XPMultiplier = DefaultSettings().Gamification.XPMultiplier
	}

	p := &UserProfile{
		ID:             snap.ID,
		DisplayName:    snap.DisplayName,
		PassphraseHash: snap.PassphraseHash,
		Settings:       settings,
		Habits:         habit.Restore(snap.ID, habits, entries),
		Goals:          goal.Restore(snap.ID, goals),
		Journal:        journal.Restore(snap.ID, journalEntries),
		Stats:          stats,
		Achievements:   achievement.RestoreEvaluator(snap.ID, achievement.DefaultCatalog(), earned),
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      snap.UpdatedAt,
	}
	p.RefreshStats()
	return p, nil
}
