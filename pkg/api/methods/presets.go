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
	"github.com/sidle-app/sidle/pkg/presets"
)

func presetToResponse(p presets.Preset) models.PresetResponse {
	games := make([]models.PresetGame, 0, len(p.Games))
	for _, g := range p.Games {
		games = append(games, models.PresetGame{ID: g.ID, Name: g.Name, Image: g.Image})
	}
	return models.PresetResponse{Name: p.Name, Games: games}
}

func gamesFromRequest(in []models.PresetGame) []presets.Game {
	games := make([]presets.Game, 0, len(in))
	for _, g := range in {
		games = append(games, presets.Game{ID: g.ID, Name: g.Name, Image: g.Image})
	}
	return games
}

// HandleListPresets returns every stored preset.
func HandleListPresets(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		list, err := env.Presets.List()
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]models.PresetResponse, 0, len(list))
		for _, p := range list {
			out = append(out, presetToResponse(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "presets": out})
	}
}

// HandleGetPreset returns a single preset by name.
func HandleGetPreset(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := env.Presets.Get(chi.URLParam(r, "name"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, presetToResponse(p))
	}
}

// HandleSavePreset creates or replaces a preset.
func HandleSavePreset(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SavePresetRequest
		if !decode(w, r, &req) {
			return
		}

		if err := env.Presets.Save(req.Name, gamesFromRequest(req.Games)); err != nil {
			writeDomainError(w, err)
			return
		}

		log.Info().Str("preset", req.Name).Int("games", len(req.Games)).Msg("api: preset saved")
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

// HandleDeletePreset removes a preset and its launcher artifact.
func HandleDeletePreset(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := env.Presets.Delete(chi.URLParam(r, "name")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

// HandleRunPreset starts every game of a stored preset with bounded
// retries.
func HandleRunPreset(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PresetRequest
		if !decode(w, r, &req) {
			return
		}

		result, err := env.Supervisor.RunPresetByName(r.Context(), req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		log.Info().
			Str("preset", req.Name).
			Str("status", result.Status).
			Strs("failed", result.Failed).
			Msg("api: preset run")
		writeJSON(w, http.StatusOK, result)
	}
}

// HandleStopPreset stops every game of a stored preset.
func HandleStopPreset(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PresetRequest
		if !decode(w, r, &req) {
			return
		}

		p, err := env.Presets.Get(req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, env.Supervisor.StopPreset(p.Games))
	}
}
