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

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/steam"
)

// HandleSteamStatus reports whether the Steam client is running and
// whether the storefront is reachable.
func HandleSteamStatus(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := steam.CheckStatus(r.Context(), env.HTTPClient)
		writeJSON(w, http.StatusOK, models.SteamStatusResponse{
			Message: status.Message,
			Running: status.Running,
			Online:  status.Online,
		})
	}
}

// HandleLaunchSteam starts the Steam client if it is installed and not
// already running.
func HandleLaunchSteam(_ Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if steam.IsRunning() {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":  "success",
				"message": "steam already running",
			})
			return
		}

		if err := steam.Launch(); err != nil {
			writeDomainError(w, err)
			return
		}

		log.Info().Msg("api: launched steam client")
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
