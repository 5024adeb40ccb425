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

//go:build windows

package steam

import (
	"os"

	"golang.org/x/sys/windows/registry"
)

const steamRegistryPath = `SOFTWARE\WOW6432Node\Valve\Steam`

// InstallDir returns the Steam install directory, preferring the
// registry and falling back to the standard locations.
func InstallDir() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, steamRegistryPath, registry.QUERY_VALUE)
	if err == nil {
		defer func() { _ = key.Close() }()
		if path, _, err := key.GetStringValue("InstallPath"); err == nil && path != "" {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	for _, path := range []string{
		`C:\Program Files (x86)\Steam`,
		`C:\Program Files\Steam`,
	} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotInstalled
}
