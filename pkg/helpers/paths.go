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

package helpers

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sidle-app/sidle/pkg/config"
)

// ConfigDir returns the directory holding the config file.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the directory holding stats, presets and goals.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// LogDir returns the directory holding log and pid files.
func LogDir() string {
	return filepath.Join(xdg.StateHome, config.AppName)
}
