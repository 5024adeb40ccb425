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

//go:build !windows

package steam

import "github.com/rs/zerolog/log"

// SetRunOnStartup is only implemented on Windows. Elsewhere the flag
// is stored but has no OS-level effect.
func SetRunOnStartup(appName string, enabled bool) error {
	log.Debug().Str("app", appName).Bool("enabled", enabled).
		Msg("steam: run-on-startup not supported on this platform")
	return nil
}
