package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/application/command"
	"github.com/better-me-app/better-me-core/internal/application/query"
	"github.com/better-me-app/better-me-core/internal/application/saga"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo := memory.NewProfileRepository()
	rewards := saga.NewRewardFlow(nil, nil, saga.DefaultRewardConfig())
	clock := shared.FixedClock{Time: time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)}

	return NewServer(DefaultConfig(), Dependencies{
		CreateProfile:        command.NewCreateProfileHandler(repo, nil, clock),
		DeleteProfile:        command.NewDeleteProfileHandler(repo),
		ManageHabits:         command.NewManageHabitsHandler(repo, clock),
		CompleteHabit:        command.NewCompleteHabitHandler(repo, rewards, clock),
		ManageGoals:          command.NewManageGoalsHandler(repo, clock),
		RecordGoalProgress:   command.NewRecordGoalProgressHandler(repo, rewards, clock),
		ManageMilestones:     command.NewManageMilestonesHandler(repo, rewards, clock),
		WriteJournal:         command.NewWriteJournalHandler(repo, rewards, clock),
		AddXP:                command.NewAddXPHandler(repo, rewards, clock),
		UpdateSettings:       command.NewUpdateSettingsHandler(repo, nil, clock),
		EvaluateAchievements: command.NewEvaluateAchievementsHandler(repo, rewards, clock),
		GetDashboard:         query.NewGetDashboardHandler(repo, clock),
		GetStats:             query.NewGetStatsHandler(repo, nil),
		GetMoodSummary:       query.NewGetMoodSummaryHandler(repo, clock),
		List:                 query.NewListHandler(repo),
		Repo:                 repo,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var envelope JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func createProfileViaAPI(t *testing.T, s *Server) string {
	t.Helper()
	rec, envelope := doJSON(t, s, http.MethodPost, "/api/v1/profiles", map[string]string{
		"display_name": "Aliya",
		"neurotype":    "adhd",
		"passphrase":   "sunrise42",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, envelope.Success)

	data := envelope.Data.(map[string]interface{})
	id, _ := data["ProfileID"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, envelope := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
}

func TestHealthEndpointUnhealthyBackend(t *testing.T) {
	s := newTestServer(t)
	s.deps.HealthCheck = func(ctx context.Context) error { return fmt.Errorf("db down") }

	rec, _ := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateProfileEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := createProfileViaAPI(t, s)

	// The new profile appears in the listing.
	rec, envelope := doJSON(t, s, http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := envelope.Data.([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, id, entry["id"])
	assert.Equal(t, "adhd", entry["neurotype"])
	assert.Equal(t, true, entry["protected"])
}

func TestCreateProfileRejectsBadNeurotype(t *testing.T) {
	s := newTestServer(t)

	rec, envelope := doJSON(t, s, http.MethodPost, "/api/v1/profiles", map[string]string{
		"display_name": "Aliya",
		"neurotype":    "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
}

func TestUnlockProfile(t *testing.T) {
	s := newTestServer(t)
	id := createProfileViaAPI(t, s)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/v1/profiles/"+id+"/unlock", map[string]string{
		"passphrase": "sunrise42",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := doJSON(t, s, http.MethodPost, "/api/v1/profiles/"+id+"/unlock", map[string]string{
		"passphrase": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, envelope.Success)
}

func TestHabitLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := createProfileViaAPI(t, s)

	rec, envelope := doJSON(t, s, http.MethodPost, "/api/v1/profiles/"+id+"/habits", map[string]interface{}{
		"name":         "Read",
		"target_value": 20,
		"unit":         "pages",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	habitID := envelope.Data.(map[string]interface{})["HabitID"].(string)
	require.NotEmpty(t, habitID)

	rec, envelope = doJSON(t, s, http.MethodPost, "/api/v1/profiles/"+id+"/habits/"+habitID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := envelope.Data.(map[string]interface{})
	assert.Equal(t, true, result["Completed"])
	// 10 base scaled by the ADHD preset (1.5) plus 25 badge XP scaled.
	assert.Equal(t, float64(53), result["XPAwarded"])

	// Dashboard reflects the completion.
	rec, envelope = doJSON(t, s, http.MethodGet, "/api/v1/profiles/"+id+"/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := envelope.Data.(map[string]interface{})
	habits := dash["habits"].([]interface{})
	require.Len(t, habits, 1)
	assert.Equal(t, true, habits[0].(map[string]interface{})["completed_today"])
}

func TestUnknownProfileReturns404(t *testing.T) {
	s := newTestServer(t)

	rec, envelope := doJSON(t, s, http.MethodGet, "/api/v1/profiles/missing/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "not_found", envelope.Error.Code)
}

func TestUnknownEndpointReturns404(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProfileRequiresPassphrase(t *testing.T) {
	s := newTestServer(t)
	id := createProfileViaAPI(t, s)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/"+id, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/"+id, nil)
	req.Header.Set("X-Passphrase", "sunrise42")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
