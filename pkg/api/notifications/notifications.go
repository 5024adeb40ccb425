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

// Package notifications provides typed constructors for websocket
// notification events.
package notifications

import "github.com/sidle-app/sidle/pkg/api/models"

func GameStarted(ns chan<- models.Notification, gameID string) {
	ns <- models.Notification{
		Method: models.NotificationGameStarted,
		Params: gameID,
	}
}

func GameStopped(ns chan<- models.Notification, gameID string) {
	ns <- models.Notification{
		Method: models.NotificationGameStopped,
		Params: gameID,
	}
}

func GameCrashed(ns chan<- models.Notification, gameID string) {
	ns <- models.Notification{
		Method: models.NotificationGameCrashed,
		Params: gameID,
	}
}

func GameReconnected(ns chan<- models.Notification, gameID string) {
	ns <- models.Notification{
		Method: models.NotificationGameReconnected,
		Params: gameID,
	}
}

func GamesDetected(ns chan<- models.Notification, gameIDs []string) {
	ns <- models.Notification{
		Method: models.NotificationGamesDetected,
		Params: gameIDs,
	}
}

func GoalReached(ns chan<- models.Notification, payload models.GoalReachedParams) {
	ns <- models.Notification{
		Method: models.NotificationGoalReached,
		Params: payload,
	}
}
