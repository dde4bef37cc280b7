package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/application/saga"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/memory"
)

var (
	ctx   = context.Background()
	day1  = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock = shared.FixedClock{Time: day1}
)

type testEnv struct {
	repo      *memory.ProfileRepository
	rewards   *saga.RewardFlow
	profileID string
}

func newTestEnv(t *testing.T, neurotype string) *testEnv {
	t.Helper()
	repo := memory.NewProfileRepository()
	rewards := saga.NewRewardFlow(nil, nil, saga.DefaultRewardConfig())

	created, err := NewCreateProfileHandler(repo, nil, clock).Handle(ctx, CreateProfileCommand{
		DisplayName: "Aliya",
		Neurotype:   neurotype,
	})
	require.NoError(t, err)

	return &testEnv{repo: repo, rewards: rewards, profileID: created.ProfileID}
}

func (e *testEnv) reload(t *testing.T) *profile.UserProfile {
	t.Helper()
	snap, err := e.repo.GetByID(ctx, e.profileID)
	require.NoError(t, err)
	p, err := profile.FromSnapshot(snap)
	require.NoError(t, err)
	return p
}

func TestCreateProfile(t *testing.T) {
	repo := memory.NewProfileRepository()
	h := NewCreateProfileHandler(repo, nil, clock)

	res, err := h.Handle(ctx, CreateProfileCommand{
		DisplayName: "Aliya",
		Neurotype:   "adhd",
		Passphrase:  "sunrise42",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ProfileID)
	assert.Equal(t, "adhd", res.Neurotype)
	assert.Equal(t, 1.5, res.XPMultiplier)
	assert.Equal(t, day1, res.CreatedAt)

	snap, err := repo.GetByID(ctx, res.ProfileID)
	require.NoError(t, err)
	p, err := profile.FromSnapshot(snap)
	require.NoError(t, err)

	assert.NoError(t, VerifyPassphrase(p, "sunrise42"))
	assert.ErrorIs(t, VerifyPassphrase(p, "wrong"), shared.ErrWrongPassphrase)
}

func TestCreateProfileValidation(t *testing.T) {
	h := NewCreateProfileHandler(memory.NewProfileRepository(), nil, clock)

	_, err := h.Handle(ctx, CreateProfileCommand{DisplayName: ""})
	assert.Error(t, err)

	_, err = h.Handle(ctx, CreateProfileCommand{DisplayName: "A", Neurotype: "bogus"})
	assert.ErrorIs(t, err, shared.ErrInvalidNeurotype)
}

func TestVerifyPassphraseUnprotectedProfile(t *testing.T) {
	p, err := profile.NewProfile("Open", day1)
	require.NoError(t, err)
	assert.NoError(t, VerifyPassphrase(p, "anything"))
}

func TestCompleteHabitAwardsXP(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)
	complete := NewCompleteHabitHandler(env.repo, env.rewards, clock)

	created, err := habits.HandleCreate(ctx, CreateHabitCommand{
		ProfileID: env.profileID,
		Name:      "Read",
	})
	require.NoError(t, err)

	res, err := complete.Handle(ctx, CompleteHabitCommand{
		ProfileID: env.profileID,
		HabitID:   created.HabitID,
		Timestamp: day1,
	})
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.NewStreak)
	// 10 base + 25 for the first-step badge.
	assert.Equal(t, 35, res.XPAwarded)
	assert.Equal(t, []string{"first-step"}, res.NewBadges)

	p := env.reload(t)
	assert.Equal(t, 35, p.Stats.TotalXP.Int())
	assert.True(t, p.Achievements.HasBadge("first-step"))
}

func TestCompleteHabitConcurrentSameDay(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)
	complete := NewCompleteHabitHandler(env.repo, env.rewards, clock)

	created, err := habits.HandleCreate(ctx, CreateHabitCommand{ProfileID: env.profileID, Name: "Read"})
	require.NoError(t, err)

	// Commands for one profile serialize on the store lock, so duplicate
	// submissions race down to exactly one completion and one XP award.
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		awarded   int
		errs      []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := complete.Handle(ctx, CompleteHabitCommand{
				ProfileID: env.profileID,
				HabitID:   created.HabitID,
				Timestamp: day1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Completed {
				completed++
			}
			awarded += res.XPAwarded
		}()
	}
	wg.Wait()

	require.Empty(t, errs)

	assert.Equal(t, 1, completed)
	assert.Equal(t, 35, awarded)

	p := env.reload(t)
	assert.Equal(t, 35, p.Stats.TotalXP.Int())
	assert.Len(t, p.Habits.EntriesFor(created.HabitID), 1)
}

func TestCompleteHabitSameDayRepeat(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)
	complete := NewCompleteHabitHandler(env.repo, env.rewards, clock)

	created, err := habits.HandleCreate(ctx, CreateHabitCommand{ProfileID: env.profileID, Name: "Read"})
	require.NoError(t, err)

	_, err = complete.Handle(ctx, CompleteHabitCommand{ProfileID: env.profileID, HabitID: created.HabitID, Timestamp: day1})
	require.NoError(t, err)

	repeat, err := complete.Handle(ctx, CompleteHabitCommand{
		ProfileID: env.profileID,
		HabitID:   created.HabitID,
		Timestamp: day1.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, repeat.Completed)
	assert.Equal(t, 0, repeat.XPAwarded)
	assert.Empty(t, repeat.NewBadges)

	// Nothing changed in the store either.
	p := env.reload(t)
	assert.Equal(t, 35, p.Stats.TotalXP.Int())
}

func TestCompleteHabitStreakBadge(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)
	complete := NewCompleteHabitHandler(env.repo, env.rewards, clock)

	created, err := habits.HandleCreate(ctx, CreateHabitCommand{ProfileID: env.profileID, Name: "Read"})
	require.NoError(t, err)

	var last *CompleteHabitResult
	for d := 0; d < 3; d++ {
		last, err = complete.Handle(ctx, CompleteHabitCommand{
			ProfileID: env.profileID,
			HabitID:   created.HabitID,
			Timestamp: day1.AddDate(0, 0, d),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, last.NewStreak)
	assert.Contains(t, last.NewBadges, "consistency")
	// day1: 35, day2: 10, day3: 10+50 -> 105 total crosses level 2.
	assert.True(t, last.LeveledUp)
	assert.Equal(t, 2, last.NewLevel)
}

func TestRecordGoalProgressCompletion(t *testing.T) {
	env := newTestEnv(t, "")
	goals := NewManageGoalsHandler(env.repo, clock)
	progress := NewRecordGoalProgressHandler(env.repo, env.rewards, clock)

	created, err := goals.HandleCreate(ctx, CreateGoalCommand{
		ProfileID:   env.profileID,
		Title:       "Run 10 km",
		TargetValue: 10,
		Unit:        "km",
	})
	require.NoError(t, err)

	res, err := progress.Handle(ctx, RecordGoalProgressCommand{
		ProfileID: env.profileID,
		GoalID:    created.GoalID,
		Delta:     12,
	})
	require.NoError(t, err)

	assert.True(t, res.JustCompleted)
	assert.Equal(t, 10.0, res.NewValue)
	assert.Equal(t, 100.0, res.CompletionPercent)
	// 25 base + 75 for goal-getter.
	assert.Equal(t, 100, res.XPAwarded)
	assert.True(t, res.LeveledUp)
	assert.Contains(t, res.NewBadges, "goal-getter")

	// Completed goals accept no further progress.
	_, err = progress.Handle(ctx, RecordGoalProgressCommand{
		ProfileID: env.profileID,
		GoalID:    created.GoalID,
		Delta:     1,
	})
	assert.ErrorIs(t, err, shared.ErrGoalNotActive)
}

func TestMilestoneLifecycle(t *testing.T) {
	env := newTestEnv(t, "")
	goals := NewManageGoalsHandler(env.repo, clock)
	milestones := NewManageMilestonesHandler(env.repo, env.rewards, clock)

	g, err := goals.HandleCreate(ctx, CreateGoalCommand{ProfileID: env.profileID, Title: "Book", TargetValue: 12})
	require.NoError(t, err)

	added, err := milestones.HandleAdd(ctx, AddMilestoneCommand{
		ProfileID:   env.profileID,
		GoalID:      g.GoalID,
		Title:       "First draft",
		TargetValue: 6,
	})
	require.NoError(t, err)

	done, err := milestones.HandleComplete(ctx, CompleteMilestoneCommand{
		ProfileID:   env.profileID,
		GoalID:      g.GoalID,
		MilestoneID: added.MilestoneID,
	})
	require.NoError(t, err)
	assert.True(t, done.Achieved)
	assert.Contains(t, done.NewBadges, "milestone-marker")

	// Completing again is a no-op.
	again, err := milestones.HandleComplete(ctx, CompleteMilestoneCommand{
		ProfileID:   env.profileID,
		GoalID:      g.GoalID,
		MilestoneID: added.MilestoneID,
	})
	require.NoError(t, err)
	assert.False(t, again.Achieved)
	assert.Empty(t, again.NewBadges)
}

func TestAddJournalEntry(t *testing.T) {
	env := newTestEnv(t, "")
	journal := NewWriteJournalHandler(env.repo, env.rewards, clock)

	res, err := journal.HandleAdd(ctx, AddJournalEntryCommand{
		ProfileID: env.profileID,
		Mood:      15, // clamped to 10
		Content:   "long run in the rain",
		Tags:      []string{"running"},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Mood)
	// 25 base + 25 for reflective.
	assert.Equal(t, 50, res.XPAwarded)
	assert.Contains(t, res.NewBadges, "reflective")

	_, err = journal.HandleAdd(ctx, AddJournalEntryCommand{ProfileID: env.profileID, Mood: 5})
	assert.ErrorIs(t, err, shared.ErrEmptyEntry)
}

func TestAddXPManualAdjustment(t *testing.T) {
	env := newTestEnv(t, "")
	h := NewAddXPHandler(env.repo, env.rewards, clock)

	res, err := h.Handle(ctx, AddXPCommand{ProfileID: env.profileID, Amount: 250, Reason: "import"})
	require.NoError(t, err)

	assert.Equal(t, 250, res.XPApplied)
	assert.Equal(t, 250, res.NewTotalXP)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.NewLevel)

	// Negative corrections floor at zero.
	res, err = h.Handle(ctx, AddXPCommand{ProfileID: env.profileID, Amount: -1000, Reason: "undo"})
	require.NoError(t, err)
	assert.Equal(t, -250, res.XPApplied)
	assert.Equal(t, 0, res.NewTotalXP)

	_, err = h.Handle(ctx, AddXPCommand{ProfileID: env.profileID, Amount: 0})
	assert.Error(t, err)
}

func TestUpdateSettings(t *testing.T) {
	env := newTestEnv(t, "")
	h := NewUpdateSettingsHandler(env.repo, nil, clock)

	neuro, err := h.HandleSetNeurotype(ctx, SetNeurotypeCommand{ProfileID: env.profileID, Neurotype: "adhd"})
	require.NoError(t, err)
	assert.Equal(t, shared.NeurotypeADHD, neuro.Settings.Neurotype)
	assert.Equal(t, 1.5, neuro.Settings.Gamification.XPMultiplier)

	theme := "dark"
	sound := false
	res, err := h.HandleUpdate(ctx, UpdateSettingsCommand{
		ProfileID:    env.profileID,
		Theme:        &theme,
		SoundEnabled: &sound,
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", res.Settings.Theme)
	assert.False(t, res.Settings.SoundEnabled)
	// Untouched fields keep their preset values.
	assert.Equal(t, shared.NotificationMotivating, res.Settings.NotificationLevel)

	_, err = h.HandleSetNeurotype(ctx, SetNeurotypeCommand{ProfileID: env.profileID, Neurotype: "bogus"})
	assert.ErrorIs(t, err, shared.ErrInvalidNeurotype)
}

func TestEvaluateAchievements(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)
	evaluate := NewEvaluateAchievementsHandler(env.repo, env.rewards, clock)

	// Nothing earned yet.
	res, err := evaluate.Handle(ctx, EvaluateAchievementsCommand{ProfileID: env.profileID})
	require.NoError(t, err)
	assert.Empty(t, res.NewBadges)

	// Creating a habit alone awards no XP, but a later sweep grants it.
	_, err = habits.HandleCreate(ctx, CreateHabitCommand{ProfileID: env.profileID, Name: "Read"})
	require.NoError(t, err)

	res, err = evaluate.Handle(ctx, EvaluateAchievementsCommand{ProfileID: env.profileID})
	require.NoError(t, err)
	assert.Equal(t, []string{"first-step"}, res.NewBadges)
	assert.Equal(t, 25, res.XPAwarded)
}

func TestDeleteProfile(t *testing.T) {
	repo := memory.NewProfileRepository()
	create := NewCreateProfileHandler(repo, nil, clock)
	del := NewDeleteProfileHandler(repo)

	created, err := create.Handle(ctx, CreateProfileCommand{DisplayName: "Aliya", Passphrase: "sunrise42"})
	require.NoError(t, err)

	err = del.Handle(ctx, DeleteProfileCommand{ProfileID: created.ProfileID, Passphrase: "wrong"})
	assert.ErrorIs(t, err, shared.ErrWrongPassphrase)

	err = del.Handle(ctx, DeleteProfileCommand{ProfileID: created.ProfileID, Passphrase: "sunrise42"})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ProfileID)
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

func TestCommandsAgainstMissingProfile(t *testing.T) {
	repo := memory.NewProfileRepository()
	rewards := saga.NewRewardFlow(nil, nil, saga.DefaultRewardConfig())

	_, err := NewCompleteHabitHandler(repo, rewards, clock).Handle(ctx, CompleteHabitCommand{
		ProfileID: "missing",
		HabitID:   "h1",
	})
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)

	_, err = NewAddXPHandler(repo, rewards, clock).Handle(ctx, AddXPCommand{ProfileID: "missing", Amount: 10})
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

func TestUpdateAndDeleteHabit(t *testing.T) {
	env := newTestEnv(t, "")
	habits := NewManageHabitsHandler(env.repo, clock)

	created, err := habits.HandleCreate(ctx, CreateHabitCommand{ProfileID: env.profileID, Name: "Read"})
	require.NoError(t, err)

	name := "Read fiction"
	updated, err := habits.HandleUpdate(ctx, UpdateHabitCommand{
		ProfileID: env.profileID,
		HabitID:   created.HabitID,
		Name:      &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Read fiction", updated.Habit.Name)

	_, err = habits.HandleDelete(ctx, DeleteHabitCommand{ProfileID: env.profileID, HabitID: created.HabitID})
	require.NoError(t, err)

	p := env.reload(t)
	assert.Equal(t, 0, p.Habits.Count())
}
