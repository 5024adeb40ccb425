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
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/steam"
)

func settingsFromConfig(env Env) models.SettingsResponse {
	return models.SettingsResponse{
		Theme:           env.Config.Theme(),
		IdlerPath:       env.Config.IdlerPath(),
		AutoReconnect:   env.Config.AutoReconnect(),
		DetectOnStart:   env.Config.DetectOnStart(),
		MinimizeToTray:  env.Config.MinimizeToTray(),
		RunOnStartup:    env.Config.RunOnStartup(),
		DiscordPresence: env.Config.DiscordPresence(),
		SetupComplete:   env.Config.SetupComplete(),
		DebugLogging:    env.Config.DebugLogging(),
	}
}

// HandleGetSettings returns the user-facing configuration.
func HandleGetSettings(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, settingsFromConfig(env))
	}
}

// HandleUpdateSettings applies a partial settings update and persists
// the config file. Absent fields are left untouched.
func HandleUpdateSettings(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateSettingsRequest
		if !decode(w, r, &req) {
			return
		}

		cfg := env.Config
		if req.Theme != nil {
			cfg.SetTheme(*req.Theme)
		}
		if req.IdlerPath != nil {
			cfg.SetIdlerPath(*req.IdlerPath)
		}
		if req.AutoReconnect != nil {
			cfg.SetAutoReconnect(*req.AutoReconnect)
		}
		if req.DetectOnStart != nil {
			cfg.SetDetectOnStart(*req.DetectOnStart)
		}
		if req.MinimizeToTray != nil {
			cfg.SetMinimizeToTray(*req.MinimizeToTray)
		}
		if req.RunOnStartup != nil {
			cfg.SetRunOnStartup(*req.RunOnStartup)
			if err := steam.SetRunOnStartup(config.AppName, *req.RunOnStartup); err != nil {
				log.Error().Err(err).Msg("api: updating startup registration")
			}
		}
		if req.DiscordPresence != nil {
			cfg.SetDiscordPresence(*req.DiscordPresence)
		}
		if req.SetupComplete != nil {
			cfg.SetSetupComplete(*req.SetupComplete)
		}
		if req.DebugLogging != nil {
			cfg.SetDebugLogging(*req.DebugLogging)
		}

		if err := cfg.Save(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		log.Info().Msg("api: settings updated")
		writeJSON(w, http.StatusOK, settingsFromConfig(env))
	}
}
