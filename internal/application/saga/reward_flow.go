// Package saga contains business processes that orchestrate multiple domain
// operations in a coordinated manner.
package saga

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REWARD FLOW SAGA
// Business process: progression side effects of a user action.
// Flow: Base XP for Source → Scale by Settings → Apply to Stats →
//
//	Level Check → Refresh Derived Counters → Evaluate Achievements →
//	Apply Badge XP Rewards → Publish Events
//
// Every mutation happens synchronously on the loaded profile; the caller
// persists the resulting snapshot, so from its perspective the whole flow
// is one atomic transition.
// ══════════════════════════════════════════════════════════════════════════════

// XP award sources. Each user action that earns XP names its source; the
// source decides the base award and is carried on the XPGainedEvent.
const (
	SourceHabitCompletion = "habit_completion"
	SourceGoalProgress    = "goal_progress"
	SourceJournalEntry    = "journal_entry"
	SourceAchievement     = "achievement"
	SourceManual          = "manual"
)

// RewardConfig sets the base XP award per source.
type RewardConfig struct {
	HabitCompletionXP int
	GoalProgressXP    int
	JournalEntryXP    int
	MaxGrantsPerRun   int
}

// DefaultRewardConfig returns the standard award table.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		HabitCompletionXP: 10,
		GoalProgressXP:    25,
		JournalEntryXP:    25,
		MaxGrantsPerRun:   5, // badge spam guard if a rule goes wrong
	}
}

// RewardInput describes the triggering action.
type RewardInput struct {
	// Source - which kind of action earned the XP.
	Source string

	// TriggerEvents - the domain events the ledger emitted for the action.
	TriggerEvents []shared.Event

	// SkipBaseXP - evaluate achievements without awarding action XP. Used
	// when the triggering action earns nothing (e.g. an idempotent repeat).
	SkipBaseXP bool

	// ManualAmount - base XP override for SourceManual corrections.
	ManualAmount int
}

// RewardResult reports everything the flow changed.
type RewardResult struct {
	// XPAwarded - total XP actually applied, after scaling, badges included.
	XPAwarded int

	// NewTotalXP - the profile's XP total after the flow.
	NewTotalXP int

	// LeveledUp - whether any level threshold was crossed.
	LeveledUp bool

	// OldLevel / NewLevel - level before and after the whole flow.
	OldLevel int
	NewLevel int

	// Grants - badges earned during this flow.
	Grants []BadgeGrant

	// Events - every event the flow published, trigger events included.
	Events []shared.Event

	// ProcessedAt - when the flow completed.
	ProcessedAt time.Time
}

type BadgeGrant struct {
	BadgeID  string `json:"badge_id"`
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
}

// HasGrants returns true if any badge was earned.
func (r *RewardResult) HasGrants() bool {
	return len(r.Grants) > 0
}

// RewardFlow applies the progression side effects of a user action to a
// loaded profile. The caller must hold the profile's command lock.
type RewardFlow struct {
	eventBus shared.EventPublisher
	logger   *slog.Logger
	config   RewardConfig
}

// NewRewardFlow creates the saga. A nil event bus disables publishing; a nil
// logger falls back to slog.Default().
func NewRewardFlow(eventBus shared.EventPublisher, logger *slog.Logger, config RewardConfig) *RewardFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &RewardFlow{eventBus: eventBus, logger: logger, config: config}
}

// Execute runs the full reward flow for one user action.
func (s *RewardFlow) Execute(ctx context.Context, p *profile.UserProfile, input RewardInput, now time.Time) (*RewardResult, error) {
	if p == nil {
		return nil, &RewardFlowError{Step: StepApplyXP, Cause: shared.ErrInvalidInput, Message: "reward flow: nil profile"}
	}

	result := &RewardResult{
		OldLevel: p.Stats.Level.Int(),
		Events:   append([]shared.Event(nil), input.TriggerEvents...),
	}

	// Step 1: apply the base award for the triggering action.
	if !input.SkipBaseXP {
		base := s.baseAward(input)
		if base != 0 {
			s.applyXP(p, base, input.Source, result)
		}
	}

	// Step 2: refresh derived counters so achievement rules see the state
	// the action produced.
	p.RefreshStats()

	// Step 3: evaluate achievements. Badge XP can cross another level
	// threshold and satisfy a level rule, so loop until a pass grants
	// nothing new. The catalog is finite and grants are at-most-once, so
	// this terminates. The per-run cap is enforced inside the evaluator:
	// rules over budget stay ungranted and pay out on a later action.
	for {
		remaining := s.config.MaxGrantsPerRun - len(result.Grants)
		if remaining <= 0 {
			s.logger.Warn("achievement grant limit reached",
				slog.String("profile_id", p.ID),
				slog.Int("limit", s.config.MaxGrantsPerRun))
			break
		}
		grants := p.Achievements.EvaluateUpTo(p.AchievementSnapshot(), now, remaining)
		if len(grants) == 0 {
			break
		}
		for _, g := range grants {
			result.Grants = append(result.Grants, BadgeGrant{
				BadgeID:  g.Achievement.BadgeID,
				Title:    g.Achievement.Title,
				XPReward: g.Achievement.XPReward,
			})
			result.Events = append(result.Events, g.Event)
			if g.Achievement.XPReward > 0 {
				s.applyXP(p, g.Achievement.XPReward, SourceAchievement, result)
			}
		}
		p.RefreshStats()
	}

	// Step 4: report level movement across the whole flow, final level only.
	result.NewTotalXP = p.Stats.TotalXP.Int()
	result.NewLevel = p.Stats.Level.Int()
	if result.NewLevel > result.OldLevel {
		result.LeveledUp = true
		result.Events = append(result.Events, shared.NewLevelUpEvent(p.ID, result.OldLevel, result.NewLevel))
	}

	p.Touch(now)

	// Step 5: publish. Event delivery is best effort; the state change
	// already happened and the snapshot is the source of truth.
	s.publish(result.Events)

	result.ProcessedAt = now
	return result, nil
}

// applyXP scales and applies one award, recording the gain event. Manual
// corrections are bookkeeping, not rewards, so they bypass the multiplier.
func (s *RewardFlow) applyXP(p *profile.UserProfile, base int, source string, result *RewardResult) {
	scaled := base
	if base > 0 && source != SourceManual {
		scaled = p.Settings.ScaleXP(base)
	}
	res := p.Stats.AddXP(scaled)
	result.XPAwarded += res.Applied
	result.Events = append(result.Events, shared.NewXPGainedEvent(p.ID, res.Applied, res.NewTotal.Int(), source))
}

// baseAward maps the action source to its configured base XP.
func (s *RewardFlow) baseAward(input RewardInput) int {
	switch input.Source {
	case SourceHabitCompletion:
		return s.config.HabitCompletionXP
	case SourceGoalProgress:
		return s.config.GoalProgressXP
	case SourceJournalEntry:
		return s.config.JournalEntryXP
	case SourceManual:
		return input.ManualAmount
	default:
		return 0
	}
}

// publish sends every event to the bus, logging failures instead of failing
// the flow.
func (s *RewardFlow) publish(events []shared.Event) {
	if s.eventBus == nil {
		return
	}
	for _, ev := range events {
		if err := s.eventBus.Publish(ev); err != nil {
			s.logger.Error("failed to publish event",
				slog.String("event_type", string(ev.EventType())),
				slog.String("error", err.Error()))
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// RewardFlowStep identifies where the flow failed.
type RewardFlowStep string

const (
	StepApplyXP      RewardFlowStep = "apply_xp"
	StepEvaluate     RewardFlowStep = "evaluate_achievements"
	StepPublishFlow  RewardFlowStep = "publish_events"
	StepFlowComplete RewardFlowStep = "complete"
)

// RewardFlowError represents an error during the reward flow.
type RewardFlowError struct {
	Step    RewardFlowStep
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *RewardFlowError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("reward flow failed at step '%s': %v", e.Step, e.Cause)
}

// Unwrap returns the underlying error.
func (e *RewardFlowError) Unwrap() error {
	return e.Cause
}
