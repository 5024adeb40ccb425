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

// Package presets stores named ordered batches of games for bulk
// start/stop. Each preset is one JSON file plus a generated .bat
// launcher script kept as a convenience artifact; the script is never
// read back by the service.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when a preset name does not exist.
	ErrNotFound = errors.New("preset not found")
	// ErrInvalidName rejects names that would escape the presets dir.
	ErrInvalidName = errors.New("invalid preset name")
)

// Game is one entry of a preset's ordered game list.
type Game struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Preset is a named ordered list of games.
type Preset struct {
	Name  string `json:"name"`
	Games []Game `json:"games"`
}

// Store persists presets under a single directory.
type Store struct {
	fs  afero.Fs
	dir string
	mu  syncutil.Mutex
}

// NewStore creates a preset store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Save creates or replaces a preset and regenerates its launcher
// script.
func (s *Store) Save(name string, games []Game) error {
	if !validName(name) {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := helpers.WriteFileAtomic(s.fs, s.jsonPath(name), data); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	// The .bat artifact lets users start the whole preset without the
	// service running. Failure to write it is not fatal.
	var sb strings.Builder
	sb.WriteString("@echo off\r\n")
	for _, game := range games {
		fmt.Fprintf(&sb, "start steam-idle.exe %s\r\n", game.ID)
	}
	if err := helpers.WriteFileAtomic(s.fs, s.batPath(name), []byte(sb.String())); err != nil {
		log.Warn().Err(err).Str("preset", name).Msg("presets: failed to write launcher script")
	}

	return nil
}

// Get returns the preset with the given name.
func (s *Store) Get(name string) (Preset, error) {
	if !validName(name) {
		return Preset{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.jsonPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Preset{}, ErrNotFound
		}
		return Preset{}, fmt.Errorf("failed to read preset file: %w", err)
	}

	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return Preset{}, fmt.Errorf("failed to unmarshal preset file: %w", err)
	}
	return Preset{Name: name, Games: games}, nil
}

// List returns all presets sorted by name.
func (s *Store) List() ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read presets directory: %w", err)
	}

	var presets []Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		data, err := afero.ReadFile(s.fs, s.jsonPath(name))
		if err != nil {
			log.Warn().Err(err).Str("preset", name).Msg("presets: skipping unreadable preset")
			continue
		}
		var games []Game
		if err := json.Unmarshal(data, &games); err != nil {
			log.Warn().Err(err).Str("preset", name).Msg("presets: skipping corrupt preset")
			continue
		}
		presets = append(presets, Preset{Name: name, Games: games})
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// Delete removes a preset and its launcher script.
func (s *Store) Delete(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.fs.Stat(s.jsonPath(name)); os.IsNotExist(err) {
		return ErrNotFound
	}

	if err := s.fs.Remove(s.jsonPath(name)); err != nil {
		return fmt.Errorf("failed to delete preset file: %w", err)
	}
	if err := s.fs.Remove(s.batPath(name)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("preset", name).Msg("presets: failed to delete launcher script")
	}
	return nil
}

func (s *Store) jsonPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) batPath(name string) string {
	return filepath.Join(s.dir, name+".bat")
}

// validName rejects empty names and anything containing a path
// separator or traversal.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
