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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/goals"
)

func goalToResponse(g goals.Goal) models.GoalResponse {
	return models.GoalResponse{
		ID:          g.ID,
		GameID:      g.GameID,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		TargetHours: g.TargetHours,
		Notified:    g.Notified,
	}
}

// HandleListGoals returns every stored goal.
func HandleListGoals(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		list := env.Goals.List()
		out := make([]models.GoalResponse, 0, len(list))
		for _, g := range list {
			out = append(out, goalToResponse(g))
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "goals": out})
	}
}

// HandleSetGoal creates or replaces the goal for a game.
func HandleSetGoal(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SetGoalRequest
		if !decode(w, r, &req) {
			return
		}

		goal, err := env.Supervisor.SetGoal(req.GameID, req.TargetHours)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, goalToResponse(goal))
	}
}

// HandleDeleteGoal removes a goal by id.
func HandleDeleteGoal(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := env.Goals.Delete(chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
