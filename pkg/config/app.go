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

package config

import "time"

const (
	AppName    = "sidle"
	AppVersion = "1.3.0"

	CfgFile     = "config.toml"
	LogFile     = "sidle.log"
	PidFile     = "sidle.pid"
	StatsFile   = "stats.json"
	GoalsFile   = "goals.json"
	PresetsDir  = "presets"
	ExportsDir  = "exports"

	DefaultAPIPort    = 7713
	APIRequestTimeout = 30 * time.Second

	// HelperBinName is the expected base name of the idler helper
	// executable, matched during external process detection.
	HelperBinName = "steam-idle"
)
