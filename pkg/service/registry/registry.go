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

// Package registry owns the mapping from game id to live helper
// process. It spawns, terminates and adopts helper processes and is
// the single source of truth for which games are currently running.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
)

var (
	// ErrAlreadyRunning is returned by Start for a registered game.
	ErrAlreadyRunning = errors.New("game is already running")
	// ErrNotRunning is returned by Stop for an unregistered game.
	ErrNotRunning = errors.New("game is not running")
)

// Handle is one registered helper process.
type Handle struct {
	StartedAt time.Time
	GameID    string
	PID       int
	Adopted   bool
}

// Registry maps game ids to live helper processes.
type Registry struct {
	procs      Procs
	idlerPath  func() string
	handles    map[string]Handle
	mu         syncutil.Mutex
}

// New creates a registry spawning the binary returned by idlerPath.
// procs may be nil, in which case the gopsutil-backed implementation
// is used.
func New(idlerPath func() string, procs Procs) *Registry {
	if procs == nil {
		procs = &osProcs{}
	}
	return &Registry{
		procs:     procs,
		idlerPath: idlerPath,
		handles:   make(map[string]Handle),
	}
}

// Start spawns a helper for gameID and registers its pid. The spawn
// failure wraps the underlying OS error for the caller to present.
func (r *Registry) Start(gameID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[gameID]; ok {
		return 0, ErrAlreadyRunning
	}

	pid, err := r.procs.Spawn(r.idlerPath(), gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to spawn helper: %w", err)
	}

	r.handles[gameID] = Handle{
		GameID:    gameID,
		PID:       pid,
		StartedAt: time.Now(),
	}

	log.Info().Str("gameID", gameID).Int("pid", pid).Msg("registry: helper started")
	return pid, nil
}

// Stop terminates the helper for gameID, children first, then removes
// it from the registry. A process that is already gone counts as a
// successful stop.
func (r *Registry) Stop(gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[gameID]
	if !ok {
		return ErrNotRunning
	}

	if err := r.procs.TerminateTree(handle.PID); err != nil {
		return fmt.Errorf("failed to terminate helper: %w", err)
	}

	delete(r.handles, gameID)
	log.Info().Str("gameID", gameID).Int("pid", handle.PID).Msg("registry: helper stopped")
	return nil
}

// Status reports whether gameID's helper is actually alive on the OS.
// A registered pid that has exited is pruned here, so a status query
// self-heals the registry. healed is true when that pruning happened.
func (r *Registry) Status(gameID string) (running, healed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[gameID]
	if !ok {
		return false, false
	}

	if r.procs.Alive(handle.PID) {
		return true, false
	}

	delete(r.handles, gameID)
	log.Warn().Str("gameID", gameID).Int("pid", handle.PID).Msg("registry: pruned stale entry")
	return false, true
}

// TerminateAll best-effort terminates every registered helper and
// empties the registry. Individual failures are logged and do not stop
// the sweep; every entry is removed regardless so the registry never
// holds known-bad pids after an emergency stop. The returned ids are
// the games whose processes were genuinely terminated.
func (r *Registry) TerminateAll() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	stopped := make([]string, 0, len(r.handles))
	for gameID, handle := range r.handles {
		alive := r.procs.Alive(handle.PID)
		if alive {
			if err := r.procs.TerminateTree(handle.PID); err != nil {
				log.Error().
					Err(err).
					Str("gameID", gameID).
					Int("pid", handle.PID).
					Msg("registry: emergency stop failed for helper")
			} else {
				stopped = append(stopped, gameID)
			}
		}
		delete(r.handles, gameID)
	}

	log.Info().Strs("stopped", stopped).Msg("registry: emergency stop complete")
	return stopped
}

// DetectExternal adopts helper processes that were started outside the
// registry, e.g. by a preset launcher script or a previous run of the
// service. The handle records the process's real start time so the
// session reflects actual elapsed runtime. Safe to run repeatedly.
func (r *Registry) DetectExternal(helperName string) []Handle {
	found, err := r.procs.FindHelpers(helperName)
	if err != nil {
		log.Error().Err(err).Msg("registry: external detection scan failed")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	adopted := make([]Handle, 0, len(found))
	for _, info := range found {
		if _, ok := r.handles[info.GameID]; ok {
			continue
		}
		handle := Handle{
			GameID:    info.GameID,
			PID:       info.PID,
			StartedAt: info.StartedAt,
			Adopted:   true,
		}
		r.handles[info.GameID] = handle
		adopted = append(adopted, handle)

		log.Info().
			Str("gameID", info.GameID).
			Int("pid", info.PID).
			Time("startedAt", info.StartedAt).
			Msg("registry: adopted external helper")
	}
	return adopted
}

// Alive reports OS-level liveness for a registered game without
// pruning, so the crash checker can decide between respawn and
// removal itself.
func (r *Registry) Alive(gameID string) (alive, registered bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[gameID]
	if !ok {
		return false, false
	}
	return r.procs.Alive(handle.PID), true
}

// Reattach replaces the pid for an already-registered game, used by
// the supervisor after respawning a crashed helper.
func (r *Registry) Reattach(gameID string, pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[gameID]
	if !ok {
		return
	}
	handle.PID = pid
	r.handles[gameID] = handle
}

// Respawn starts a new helper process for a game that is still
// registered but whose process died, keeping the existing handle's
// start time.
func (r *Registry) Respawn(gameID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.handles[gameID]
	if !ok {
		return 0, ErrNotRunning
	}

	pid, err := r.procs.Spawn(r.idlerPath(), gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to respawn helper: %w", err)
	}

	handle.PID = pid
	r.handles[gameID] = handle
	return pid, nil
}

// Remove drops a registration without touching the OS process, used by
// the supervisor when pruning a crashed helper.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, gameID)
}

// Running returns a snapshot of all registered handles.
func (r *Registry) Running() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles := make([]Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	return handles
}

// IsRunning reports whether gameID has a registered handle, without
// checking OS liveness.
func (r *Registry) IsRunning(gameID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[gameID]
	return ok
}
