// Sidle
// Copyright (c) 2026 The Sidle Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Sidle.
//
// Sidle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sidle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sidle.  If not, see <http://www.gnu.org/licenses/>.

package methods

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/goals"
	"github.com/sidle-app/sidle/pkg/presets"
	"github.com/sidle-app/sidle/pkg/service/ledger"
	"github.com/sidle-app/sidle/pkg/service/registry"
	"github.com/sidle-app/sidle/pkg/service/supervisor"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProcs backs the registry without touching the OS.
type stubProcs struct {
	nextPID int
	alive   map[int]bool
}

func (p *stubProcs) Spawn(_, _ string) (int, error) {
	p.nextPID++
	p.alive[p.nextPID] = true
	return p.nextPID, nil
}

func (p *stubProcs) Alive(pid int) bool { return p.alive[pid] }

func (p *stubProcs) TerminateTree(pid int) error {
	delete(p.alive, pid)
	return nil
}

func (p *stubProcs) FindHelpers(string) ([]registry.HelperInfo, error) { return nil, nil }

func newEnv(t *testing.T) Env {
	t.Helper()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	procs := &stubProcs{nextPID: 5000, alive: make(map[int]bool)}
	reg := registry.New(func() string { return "steam-idle" }, procs)
	ldg := ledger.New(fs, "/data/stats.json")
	goalStore := goals.NewStore(fs, "/data/goals.json")
	presetStore := presets.NewStore(fs, "/data/presets")
	ns := make(chan models.Notification, 64)

	sup := supervisor.New(cfg, reg, ldg, goalStore, presetStore, nil,
		clockwork.NewFakeClock(), ns)

	return Env{
		Config:     cfg,
		Supervisor: sup,
		Presets:    presetStore,
		Goals:      goalStore,
	}
}

// testRouter mounts the handlers under test with their URL params.
func testRouter(env Env) chi.Router {
	r := chi.NewRouter()
	r.Post("/games/start", HandleStartGame(env))
	r.Post("/games/stop", HandleStopGame(env))
	r.Get("/games/{gameID}/status", HandleGameStatus(env))
	r.Get("/games/{gameID}/session", HandleSessionTime(env))
	r.Post("/presets", HandleSavePreset(env))
	r.Post("/presets/run", HandleRunPreset(env))
	r.Get("/goals", HandleListGoals(env))
	r.Post("/goals", HandleSetGoal(env))
	r.Put("/settings", HandleUpdateSettings(env))
	r.Get("/stats/export", HandleExport(env))
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartGameEndpoint(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))

	w := doJSON(t, r, http.MethodPost, "/games/start", `{"gameId":"730"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StartGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Positive(t, resp.PID)

	// Starting the same game again conflicts.
	w = doJSON(t, r, http.MethodPost, "/games/start", `{"gameId":"730"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartGameValidation(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", "{"},
		{"missing id", `{}`},
		{"non-numeric id", `{"gameId":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := doJSON(t, r, http.MethodPost, "/games/start", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStopGameNotRunning(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))
	w := doJSON(t, r, http.MethodPost, "/games/stop", `{"gameId":"730"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionTimeEndpoint(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))

	w := doJSON(t, r, http.MethodGet, "/games/730/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SessionTimeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "00:00:00", resp.CurrentSession)
	assert.Equal(t, "00:00:00", resp.TotalTime)
}

func TestSavePresetAndRun(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	r := testRouter(env)

	w := doJSON(t, r, http.MethodPost, "/presets",
		`{"name":"farm","games":[{"id":"730"},{"id":"440"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/presets/run", `{"name":"farm"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RunPresetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.ElementsMatch(t, []string{"730", "440"}, resp.Started)
}

func TestRunUnknownPreset(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))
	w := doJSON(t, r, http.MethodPost, "/presets/run", `{"name":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetAndListGoals(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))

	w := doJSON(t, r, http.MethodPost, "/goals", `{"gameId":"730","targetHours":10}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/goals", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Goals []models.GoalResponse `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Goals, 1)
	assert.Equal(t, "730", resp.Goals[0].GameID)
}

func TestUpdateSettingsPartial(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	r := testRouter(env)

	w := doJSON(t, r, http.MethodPut, "/settings", `{"theme":"light"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SettingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "light", resp.Theme)
	// Untouched fields keep their values.
	assert.True(t, resp.DetectOnStart)
	assert.True(t, resp.MinimizeToTray)
}

func TestExportUnknownFormat(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))
	w := doJSON(t, r, http.MethodGet, "/stats/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSVHeaders(t *testing.T) {
	t.Parallel()

	r := testRouter(newEnv(t))
	w := doJSON(t, r, http.MethodGet, "/stats/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}
