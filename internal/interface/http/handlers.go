package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/better-me-app/better-me-core/internal/application/command"
	"github.com/better-me-app/better-me-core/internal/application/query"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps application errors onto HTTP statuses. Anything not
// recognized is treated as a rejected request: commands validate before they
// touch storage, so unknown errors are almost always bad input.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, shared.ErrWrongPassphrase):
		writeJSONError(w, http.StatusUnauthorized, "wrong_passphrase", "wrong passphrase")
	case errors.Is(err, shared.ErrStorage), errors.Is(err, shared.ErrServiceUnavailable):
		s.logger.Error("storage failure", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "storage_unavailable", "Storage backend unavailable")
	case errors.Is(err, shared.ErrInvariantViolation):
		s.logger.Error("invariant violation", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		// An empty body means "all defaults".
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & ROOT
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if s.deps.HealthCheck != nil {
		if err := s.deps.HealthCheck(r.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			s.logger.Warn("health check failed", "error", err)
		}
	}
	writeJSON(w, code, map[string]interface{}{
		"status":         status,
		"uptime_seconds": int(s.Uptime().Seconds()),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "better-me-core",
		"api":     "/api/v1",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILES
// ══════════════════════════════════════════════════════════════════════════════

type createProfileRequest struct {
	DisplayName string `json:"display_name"`
	Neurotype   string `json:"neurotype"`
	Passphrase  string `json:"passphrase"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.CreateProfile.Handle(r.Context(), command.CreateProfileCommand{
		DisplayName: req.DisplayName,
		Neurotype:   req.Neurotype,
		Passphrase:  req.Passphrase,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// profileSummary is the list-view projection of a profile.
type profileSummary struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Neurotype   string    `json:"neurotype"`
	Level       int       `json:"level"`
	TotalXP     int       `json:"total_xp"`
	Protected   bool      `json:"protected"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.deps.Repo.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	summaries := make([]profileSummary, 0, len(snaps))
	for _, snap := range snaps {
		summaries = append(summaries, profileSummary{
			ID:          snap.ID,
			DisplayName: snap.DisplayName,
			Neurotype:   string(snap.Settings.Neurotype),
			Level:       shared.XP(snap.Stats.TotalXP).Level().Int(),
			TotalXP:     snap.Stats.TotalXP,
			Protected:   len(snap.PassphraseHash) > 0,
			CreatedAt:   snap.CreatedAt,
			UpdatedAt:   snap.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteProfile.Handle(r.Context(), command.DeleteProfileCommand{
		ProfileID:  r.PathValue("id"),
		Passphrase: r.Header.Get("X-Passphrase"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type unlockProfileRequest struct {
	Passphrase string `json:"passphrase"`
}

func (s *Server) handleUnlockProfile(w http.ResponseWriter, r *http.Request) {
	var req unlockProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := s.deps.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	p, err := profile.FromSnapshot(snap)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := command.VerifyPassphrase(p, req.Passphrase); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ SIDE
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetDashboard.Handle(r.Context(), query.GetDashboardQuery{
		ProfileID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetStats.Handle(r.Context(), query.GetStatsQuery{
		ProfileID:   r.PathValue("id"),
		BypassCache: getQueryParamBool(r, "fresh"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetMoodSummary(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetMoodSummary.Handle(r.Context(), query.GetMoodSummaryQuery{
		ProfileID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// ══════════════════════════════════════════════════════════════════════════════
// HABITS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.deps.List.Habits(r.Context(), query.ListHabitsQuery{
		ProfileID:  r.PathValue("id"),
		ActiveOnly: getQueryParamBool(r, "active"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

type createHabitRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Frequency   string  `json:"frequency"`
	TargetValue float64 `json:"target_value"`
	Unit        string  `json:"unit"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ManageHabits.HandleCreate(r.Context(), command.CreateHabitCommand{
		ProfileID:   r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type updateHabitRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Frequency   *string  `json:"frequency"`
	TargetValue *float64 `json:"target_value"`
	Unit        *string  `json:"unit"`
	IsActive    *bool    `json:"is_active"`
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req updateHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ManageHabits.HandleUpdate(r.Context(), command.UpdateHabitCommand{
		ProfileID:   r.PathValue("id"),
		HabitID:     r.PathValue("habitID"),
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ManageHabits.HandleDelete(r.Context(), command.DeleteHabitCommand{
		ProfileID: r.PathValue("id"),
		HabitID:   r.PathValue("habitID"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type completeHabitRequest struct {
	Value     float64   `json:"value"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req completeHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.CompleteHabit.Handle(r.Context(), command.CompleteHabitCommand{
		ProfileID: r.PathValue("id"),
		HabitID:   r.PathValue("habitID"),
		Value:     req.Value,
		Notes:     req.Notes,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// GOALS & MILESTONES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.deps.List.Goals(r.Context(), query.ListGoalsQuery{
		ProfileID: r.PathValue("id"),
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

type createGoalRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	TargetValue float64   `json:"target_value"`
	Unit        string    `json:"unit"`
	Deadline    time.Time `json:"deadline"`
	Priority    int       `json:"priority"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ManageGoals.HandleCreate(r.Context(), command.CreateGoalCommand{
		ProfileID:   r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type updateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	TargetValue *float64   `json:"target_value"`
	Unit        *string    `json:"unit"`
	Deadline    *time.Time `json:"deadline"`
	Priority    *int       `json:"priority"`
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req updateGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ManageGoals.HandleUpdate(r.Context(), command.UpdateGoalCommand{
		ProfileID:   r.PathValue("id"),
		GoalID:      r.PathValue("goalID"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ManageGoals.HandleDelete(r.Context(), command.DeleteGoalCommand{
		ProfileID: r.PathValue("id"),
		GoalID:    r.PathValue("goalID"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type recordGoalProgressRequest struct {
	Delta     float64   `json:"delta"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleRecordGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req recordGoalProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordGoalProgress.Handle(r.Context(), command.RecordGoalProgressCommand{
		ProfileID: r.PathValue("id"),
		GoalID:    r.PathValue("goalID"),
		Delta:     req.Delta,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type addMilestoneRequest struct {
	Title       string  `json:"title"`
	TargetValue float64 `json:"target_value"`
}

func (s *Server) handleAddMilestone(w http.ResponseWriter, r *http.Request) {
	var req addMilestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ManageMilestones.HandleAdd(r.Context(), command.AddMilestoneCommand{
		ProfileID:   r.PathValue("id"),
		GoalID:      r.PathValue("goalID"),
		Title:       req.Title,
		TargetValue: req.TargetValue,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCompleteMilestone(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ManageMilestones.HandleComplete(r.Context(), command.CompleteMilestoneCommand{
		ProfileID:   r.PathValue("id"),
		GoalID:      r.PathValue("goalID"),
		MilestoneID: r.PathValue("milestoneID"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// JOURNAL
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.List.Journal(r.Context(), query.ListJournalQuery{
		ProfileID: r.PathValue("id"),
		Limit:     getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type addJournalEntryRequest struct {
	Mood      int       `json:"mood"`
	Content   string    `json:"content"`
	Gratitude string    `json:"gratitude"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleAddJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req addJournalEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.WriteJournal.HandleAdd(r.Context(), command.AddJournalEntryCommand{
		ProfileID: r.PathValue("id"),
		Mood:      req.Mood,
		Content:   req.Content,
		Gratitude: req.Gratitude,
		Tags:      req.Tags,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type updateJournalEntryRequest struct {
	Mood      *int      `json:"mood"`
	Content   *string   `json:"content"`
	Gratitude *string   `json:"gratitude"`
	Tags      *[]string `json:"tags"`
}

func (s *Server) handleUpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req updateJournalEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.WriteJournal.HandleUpdate(r.Context(), command.UpdateJournalEntryCommand{
		ProfileID: r.PathValue("id"),
		EntryID:   r.PathValue("entryID"),
		Mood:      req.Mood,
		Content:   req.Content,
		Gratitude: req.Gratitude,
		Tags:      req.Tags,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.WriteJournal.HandleDelete(r.Context(), command.DeleteJournalEntryCommand{
		ProfileID: r.PathValue("id"),
		EntryID:   r.PathValue("entryID"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION
// ══════════════════════════════════════════════════════════════════════════════

type addXPRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AddXP.Handle(r.Context(), command.AddXPCommand{
		ProfileID: r.PathValue("id"),
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvaluateAchievements(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.EvaluateAchievements.Handle(r.Context(), command.EvaluateAchievementsCommand{
		ProfileID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

type updateSettingsRequest struct {
	Theme             *string  `json:"theme"`
	NotificationLevel *string  `json:"notification_level"`
	SoundEnabled      *bool    `json:"sound_enabled"`
	AnimationsEnabled *bool    `json:"animations_enabled"`
	HighContrast      *bool    `json:"high_contrast"`
	ReducedMotion     *bool    `json:"reduced_motion"`
	XPMultiplier      *float64 `json:"xp_multiplier"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateSettings.HandleUpdate(r.Context(), command.UpdateSettingsCommand{
		ProfileID:         r.PathValue("id"),
		Theme:             req.Theme,
		NotificationLevel: req.NotificationLevel,
		SoundEnabled:      req.SoundEnabled,
		AnimationsEnabled: req.AnimationsEnabled,
		HighContrast:      req.HighContrast,
		ReducedMotion:     req.ReducedMotion,
		XPMultiplier:      req.XPMultiplier,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type setNeurotypeRequest struct {
	Neurotype string `json:"neurotype"`
}

func (s *Server) handleSetNeurotype(w http.ResponseWriter, r *http.Request) {
	var req setNeurotypeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateSettings.HandleSetNeurotype(r.Context(), command.SetNeurotypeCommand{
		ProfileID: r.PathValue("id"),
		Neurotype: req.Neurotype,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
