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

// Package goals stores user-defined playtime targets. A goal fires a
// single notification when its game's total time crosses the target;
// the notified flag is monotonic and never reverts.
package goals

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
	"github.com/spf13/afero"
)

// ErrNotFound is returned when a goal id does not exist.
var ErrNotFound = errors.New("goal not found")

// Goal is one playtime target.
type Goal struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	TargetHours float64   `json:"target_hours"`
	Notified    bool      `json:"notified"`
}

// Target returns the goal's target as a duration.
func (g Goal) Target() time.Duration {
	return time.Duration(g.TargetHours * float64(time.Hour))
}

// Store persists goals as a JSON list.
type Store struct {
	fs    afero.Fs
	path  string
	goals []Goal
	mu    syncutil.RWMutex
}

// NewStore creates a goal store persisting to path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Load reads the persisted goal list. A missing file is an empty list.
func (s *Store) Load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read goals file: %w", err)
	}

	var goals []Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return fmt.Errorf("failed to unmarshal goals file: %w", err)
	}

	s.mu.Lock()
	s.goals = goals
	s.mu.Unlock()
	return nil
}

// Set creates a goal for gameID. Setting a new goal for a game that
// already has one replaces it, resetting the notified flag only when
// the target actually changed.
func (s *Store) Set(gameID string, targetHours float64, now time.Time) (Goal, error) {
	s.mu.Lock()

	for i, g := range s.goals {
		if g.GameID != gameID {
			continue
		}
		if g.TargetHours != targetHours {
			s.goals[i].TargetHours = targetHours
			s.goals[i].Notified = false
		}
		goal := s.goals[i]
		s.mu.Unlock()
		return goal, s.save()
	}

	goal := Goal{
		ID:          uuid.New().String(),
		GameID:      gameID,
		TargetHours: targetHours,
		CreatedAt:   now,
	}
	s.goals = append(s.goals, goal)
	s.mu.Unlock()

	return goal, s.save()
}

// Delete removes a goal by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	found := false
	goals := s.goals[:0]
	for _, g := range s.goals {
		if g.ID == id {
			found = true
			continue
		}
		goals = append(goals, g)
	}
	s.goals = goals
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	return s.save()
}

// List returns a copy of all goals.
func (s *Store) List() []Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Pending returns goals that have not fired yet.
func (s *Store) Pending() []Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Goal
	for _, g := range s.goals {
		if !g.Notified {
			out = append(out, g)
		}
	}
	return out
}

// MarkNotified sets a goal's notified flag. The flag is monotonic:
// there is no way to clear it short of replacing the goal.
func (s *Store) MarkNotified(id string) error {
	s.mu.Lock()
	found := false
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Notified = true
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	return s.save()
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.goals, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}

	if err := helpers.WriteFileAtomic(s.fs, s.path, data); err != nil {
		log.Error().Err(err).Msg("goals: failed to persist")
		return fmt.Errorf("failed to write goals file: %w", err)
	}
	return nil
}
