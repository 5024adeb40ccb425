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

// Package models defines the JSON types shared between the API server,
// the websocket notification stream and the frontends.
package models

// Notification method names pushed over the websocket stream.
const (
	NotificationGameStarted     = "game.started"
	NotificationGameStopped     = "game.stopped"
	NotificationGameCrashed     = "game.crashed"
	NotificationGameReconnected = "game.reconnected"
	NotificationGamesDetected   = "games.detected"
	NotificationGoalReached     = "goal.reached"
)

// Notification is a one-way event pushed to connected clients.
type Notification struct {
	Params any    `json:"params,omitempty"`
	Method string `json:"method"`
}

// GameRequest addresses a single game by its Steam app id.
type GameRequest struct {
	GameID string `json:"gameId" validate:"required,appid"`
}

// StartGameResponse reports the pid of a freshly spawned helper.
type StartGameResponse struct {
	Status string `json:"status"`
	PID    int    `json:"pid"`
}

// GameStatusResponse reports live process state for one game.
type GameStatusResponse struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
}

// SessionTimeResponse carries HH:MM:SS formatted durations.
type SessionTimeResponse struct {
	CurrentSession string `json:"current_session"`
	TotalTime      string `json:"total_time"`
}

// PresetGame is one entry of a preset's ordered game list.
type PresetGame struct {
	ID    string `json:"id" validate:"required,appid"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// SavePresetRequest creates or replaces a named preset.
type SavePresetRequest struct {
	Name  string       `json:"name" validate:"required"`
	Games []PresetGame `json:"games" validate:"required,min=1,dive"`
}

// PresetRequest addresses a preset by name.
type PresetRequest struct {
	Name string `json:"name" validate:"required"`
}

// PresetResponse is one stored preset.
type PresetResponse struct {
	Name  string       `json:"name"`
	Games []PresetGame `json:"games"`
}

// RunPresetResponse enumerates the outcome of a batch start.
// Status is "success", "partial" or "error".
type RunPresetResponse struct {
	Status  string   `json:"status"`
	Started []string `json:"started"`
	Failed  []string `json:"failed"`
}

// StopPresetResponse enumerates the games stopped by a batch stop.
type StopPresetResponse struct {
	Status  string   `json:"status"`
	Stopped []string `json:"stopped"`
}

// EmergencyStopResponse lists every game the emergency stop shut down.
type EmergencyStopResponse struct {
	Status  string   `json:"status"`
	Stopped []string `json:"stopped"`
}

// DetectResponse lists externally started helpers adopted into the
// registry.
type DetectResponse struct {
	Status  string   `json:"status"`
	Adopted []string `json:"adopted"`
}

// GameInfoResponse is cached descriptive metadata for a game.
type GameInfoResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// SetGoalRequest creates a playtime goal for a game.
type SetGoalRequest struct {
	GameID      string  `json:"gameId" validate:"required,appid"`
	TargetHours float64 `json:"targetHours" validate:"required,gt=0"`
}

// GoalResponse is one stored goal.
type GoalResponse struct {
	ID          string  `json:"id"`
	GameID      string  `json:"game_id"`
	CreatedAt   string  `json:"created_at"`
	TargetHours float64 `json:"target_hours"`
	Notified    bool    `json:"notified"`
}

// GoalReachedParams is the payload of a goal.reached notification.
type GoalReachedParams struct {
	GameID      string  `json:"gameId"`
	Name        string  `json:"name"`
	TargetHours float64 `json:"targetHours"`
}

// SettingsResponse mirrors the user-facing configuration.
type SettingsResponse struct {
	Theme           string `json:"theme"`
	IdlerPath       string `json:"idlerPath"`
	AutoReconnect   bool   `json:"autoReconnect"`
	DetectOnStart   bool   `json:"detectOnStart"`
	MinimizeToTray  bool   `json:"minimizeToTray"`
	RunOnStartup    bool   `json:"runOnStartup"`
	DiscordPresence bool   `json:"discordPresence"`
	SetupComplete   bool   `json:"setupComplete"`
	DebugLogging    bool   `json:"debugLogging"`
}

// UpdateSettingsRequest carries partial settings updates. Nil fields
// are left unchanged.
type UpdateSettingsRequest struct {
	Theme           *string `json:"theme,omitempty"`
	IdlerPath       *string `json:"idlerPath,omitempty"`
	AutoReconnect   *bool   `json:"autoReconnect,omitempty"`
	DetectOnStart   *bool   `json:"detectOnStart,omitempty"`
	MinimizeToTray  *bool   `json:"minimizeToTray,omitempty"`
	RunOnStartup    *bool   `json:"runOnStartup,omitempty"`
	DiscordPresence *bool   `json:"discordPresence,omitempty"`
	SetupComplete   *bool   `json:"setupComplete,omitempty"`
	DebugLogging    *bool   `json:"debugLogging,omitempty"`
}

// SteamStatusResponse reports whether the Steam client is running and
// reachable.
type SteamStatusResponse struct {
	Message string `json:"message"`
	Running bool   `json:"running"`
	Online  bool   `json:"online"`
}

// ErrorResponse is the uniform error body for failed requests.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
