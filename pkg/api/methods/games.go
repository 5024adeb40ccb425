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
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/helpers"
)

// HandleStartGame spawns a helper for the requested game.
func HandleStartGame(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.GameRequest
		if !decode(w, r, &req) {
			return
		}

		pid, err := env.Supervisor.StartGame(r.Context(), req.GameID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		log.Info().Str("gameID", req.GameID).Int("pid", pid).Msg("api: game started")
		writeJSON(w, http.StatusOK, models.StartGameResponse{Status: "success", PID: pid})
	}
}

// HandleStopGame terminates the requested game's helper.
func HandleStopGame(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.GameRequest
		if !decode(w, r, &req) {
			return
		}

		if err := env.Supervisor.StopGame(req.GameID); err != nil {
			writeDomainError(w, err)
			return
		}

		log.Info().Str("gameID", req.GameID).Msg("api: game stopped")
		writeJSON(w, http.StatusOK, models.GameStatusResponse{Status: "success", Running: false})
	}
}

// HandleGameStatus reports live process state for a game.
func HandleGameStatus(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		running := env.Supervisor.GameStatus(gameID)
		writeJSON(w, http.StatusOK, models.GameStatusResponse{Status: "success", Running: running})
	}
}

// HandleSessionTime reports the current session and total playtime for
// a game, both formatted HH:MM:SS.
func HandleSessionTime(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		writeJSON(w, http.StatusOK, env.Supervisor.SessionTime(gameID))
	}
}

// HandleEmergencyStop terminates every running helper.
func HandleEmergencyStop(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stopped := env.Supervisor.EmergencyStopAll()
		log.Info().Strs("stopped", stopped).Msg("api: emergency stop")
		writeJSON(w, http.StatusOK, models.EmergencyStopResponse{Status: "success", Stopped: stopped})
	}
}

// HandleDetectRunning adopts helpers started outside the service.
func HandleDetectRunning(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adopted := env.Supervisor.DetectRunning(r.Context())
		writeJSON(w, http.StatusOK, models.DetectResponse{Status: "success", Adopted: adopted})
	}
}

// HandleRunningGames lists the currently registered helpers.
func HandleRunningGames(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		handles := env.Supervisor.Running()
		ids := make([]string, 0, len(handles))
		for _, h := range handles {
			ids = append(ids, h.GameID)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "running": ids})
	}
}

// HandleFetchGame resolves a game's display metadata from the Steam
// storefront.
func HandleFetchGame(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		info, err := env.Scraper.Fetch(r.Context(), gameID)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, models.GameInfoResponse{
			ID:    gameID,
			Name:  info.Name,
			Image: info.Image,
		})
	}
}

// HandleStatistics returns the full playtime ledger.
func HandleStatistics(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type statEntry struct {
			GameID string `json:"game_id"`
			Name   string `json:"name"`
			Image  string `json:"image"`
			Total  string `json:"total_time"`
			Active bool   `json:"active"`
		}

		entries := env.Supervisor.Entries()
		out := make([]statEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, statEntry{
				GameID: e.GameID,
				Name:   e.Meta.DisplayName,
				Image:  e.Meta.ImageURL,
				Total:  helpers.FormatDuration(e.Accumulated),
				Active: e.Active,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "games": out})
	}
}
