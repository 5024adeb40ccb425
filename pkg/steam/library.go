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

package steam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
)

// InstalledGame is a locally installed game found in a Steam library.
type InstalledGame struct {
	AppID string
	Name  string
}

// ScanLibrary walks every Steam library folder and returns the
// installed games by parsing their app manifests. It resolves display
// names without touching the network, as a fallback for the storefront
// scraper.
func ScanLibrary(steamDir string) ([]InstalledGame, error) {
	folders, err := libraryFolders(steamDir)
	if err != nil {
		return nil, err
	}

	var games []InstalledGame
	for _, folder := range folders {
		appsDir := filepath.Join(folder, "steamapps")
		entries, err := os.ReadDir(appsDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
				continue
			}
			game, err := parseAppManifest(filepath.Join(appsDir, name))
			if err != nil {
				log.Debug().Err(err).Str("manifest", name).Msg("steam: skipping unreadable manifest")
				continue
			}
			games = append(games, game)
		}
	}
	return games, nil
}

// FindInstalledName returns the display name of a locally installed
// game, or false if the game is not in any library.
func FindInstalledName(steamDir, appID string) (string, bool) {
	games, err := ScanLibrary(steamDir)
	if err != nil {
		return "", false
	}
	for _, game := range games {
		if game.AppID == appID {
			return game.Name, true
		}
	}
	return "", false
}

// libraryFolders returns the root of every configured library,
// including the main install dir.
func libraryFolders(steamDir string) ([]string, error) {
	folders := []string{steamDir}

	path := filepath.Join(steamDir, "steamapps", "libraryfolders.vdf")
	f, err := os.Open(path) //nolint:gosec // G304: path is derived from the install dir
	if err != nil {
		if os.IsNotExist(err) {
			return folders, nil
		}
		return nil, fmt.Errorf("failed to open libraryfolders.vdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse libraryfolders.vdf: %w", err)
	}

	root, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return folders, nil
	}
	for _, v := range root {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := entry["path"].(string); ok && p != "" && p != steamDir {
			folders = append(folders, p)
		}
	}
	return folders, nil
}

func parseAppManifest(path string) (InstalledGame, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from a directory listing
	if err != nil {
		return InstalledGame{}, err
	}
	defer func() { _ = f.Close() }()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return InstalledGame{}, err
	}

	state, ok := m["AppState"].(map[string]any)
	if !ok {
		return InstalledGame{}, fmt.Errorf("no AppState in %s", filepath.Base(path))
	}

	appID, _ := state["appid"].(string)
	name, _ := state["name"].(string)
	if appID == "" {
		return InstalledGame{}, fmt.Errorf("no appid in %s", filepath.Base(path))
	}
	return InstalledGame{AppID: appID, Name: name}, nil
}
