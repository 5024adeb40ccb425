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

// Package supervisor ties the process registry and the session ledger
// together behind the control-surface operations used by the HTTP API
// and the tray menu, and runs the background loops: crash detection
// with optional reconnect, goal evaluation and periodic stats flush.
package supervisor

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/api/notifications"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/export"
	"github.com/sidle-app/sidle/pkg/goals"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/presets"
	"github.com/sidle-app/sidle/pkg/service/ledger"
	"github.com/sidle-app/sidle/pkg/service/registry"
	"golang.org/x/sync/errgroup"
)

// MetadataFetcher resolves descriptive game metadata. Implementations
// are expected to be slow (network) and are only consulted once per
// game.
type MetadataFetcher interface {
	Fetch(ctx context.Context, gameID string) (ledger.Meta, error)
}

// Supervisor owns the running-game state shared by every frontend.
type Supervisor struct {
	cfg     *config.Instance
	reg     *registry.Registry
	ldg     *ledger.Ledger
	goals   *goals.Store
	presets *presets.Store
	meta    MetadataFetcher
	clock   clockwork.Clock
	ns      chan<- models.Notification
}

// New wires a supervisor. clock may be nil for the real clock; meta
// may be nil to skip metadata fetching.
func New(
	cfg *config.Instance,
	reg *registry.Registry,
	ldg *ledger.Ledger,
	goalStore *goals.Store,
	presetStore *presets.Store,
	meta MetadataFetcher,
	clock clockwork.Clock,
	ns chan<- models.Notification,
) *Supervisor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Supervisor{
		cfg:     cfg,
		reg:     reg,
		ldg:     ldg,
		goals:   goalStore,
		presets: presetStore,
		meta:    meta,
		clock:   clock,
		ns:      ns,
	}
}

// StartGame spawns a helper for gameID and opens its session.
func (s *Supervisor) StartGame(ctx context.Context, gameID string) (int, error) {
	pid, err := s.reg.Start(gameID)
	if err != nil {
		return 0, err
	}

	s.openSession(ctx, gameID, s.clock.Now())
	notifications.GameStarted(s.ns, gameID)
	return pid, nil
}

// StopGame terminates gameID's helper and folds the session into the
// persisted total.
func (s *Supervisor) StopGame(gameID string) error {
	if err := s.reg.Stop(gameID); err != nil {
		return err
	}

	s.ldg.CloseSession(gameID, s.clock.Now())
	s.persistBestEffort()
	notifications.GameStopped(s.ns, gameID)
	return nil
}

// GameStatus reports whether gameID's helper is alive. A stale
// registration discovered here closes the session, exactly as the
// crash checker would.
func (s *Supervisor) GameStatus(gameID string) bool {
	running, healed := s.reg.Status(gameID)
	if healed {
		s.ldg.CloseSession(gameID, s.clock.Now())
		s.persistBestEffort()
		notifications.GameCrashed(s.ns, gameID)
	}
	return running
}

// SessionTime returns the in-flight session duration and the grand
// total for gameID, both formatted HH:MM:SS.
func (s *Supervisor) SessionTime(gameID string) models.SessionTimeResponse {
	now := s.clock.Now()
	elapsed, _ := s.ldg.SessionElapsed(gameID, now)
	return models.SessionTimeResponse{
		CurrentSession: helpers.FormatDuration(elapsed),
		TotalTime:      helpers.FormatDuration(s.ldg.CurrentTotal(gameID, now)),
	}
}

// RunPreset starts every game in the list, retrying transient spawn
// failures for a bounded number of rounds with a fixed delay between
// rounds. Games already running count as started: the desired state
// already holds.
func (s *Supervisor) RunPreset(ctx context.Context, games []presets.Game) models.RunPresetResponse {
	pending := make([]presets.Game, len(games))
	copy(pending, games)

	started := make([]string, 0, len(games))
	rounds := s.cfg.StartRetries()

	for round := range rounds {
		if len(pending) == 0 {
			break
		}
		if round > 0 {
			s.clock.Sleep(s.cfg.RetryDelay())
		}

		var failed []presets.Game
		for _, game := range pending {
			_, err := s.StartGame(ctx, game.ID)
			switch {
			case err == nil:
				started = append(started, game.ID)
			case errors.Is(err, registry.ErrAlreadyRunning):
				started = append(started, game.ID)
			default:
				log.Warn().
					Err(err).
					Str("gameID", game.ID).
					Int("round", round+1).
					Msg("supervisor: preset start attempt failed")
				failed = append(failed, game)
			}
		}
		pending = failed
	}

	failedIDs := make([]string, 0, len(pending))
	for _, game := range pending {
		failedIDs = append(failedIDs, game.ID)
	}

	status := "success"
	switch {
	case len(started) == 0 && len(failedIDs) > 0:
		status = "error"
	case len(failedIDs) > 0:
		status = "partial"
	}

	return models.RunPresetResponse{
		Status:  status,
		Started: started,
		Failed:  failedIDs,
	}
}

// RunPresetByName loads a stored preset and runs it.
func (s *Supervisor) RunPresetByName(ctx context.Context, name string) (models.RunPresetResponse, error) {
	preset, err := s.presets.Get(name)
	if err != nil {
		return models.RunPresetResponse{}, err
	}
	return s.RunPreset(ctx, preset.Games), nil
}

// StopPreset stops every game in the list, tolerating games that are
// not running.
func (s *Supervisor) StopPreset(games []presets.Game) models.StopPresetResponse {
	stopped := make([]string, 0, len(games))
	for _, game := range games {
		err := s.StopGame(game.ID)
		switch {
		case err == nil:
			stopped = append(stopped, game.ID)
		case errors.Is(err, registry.ErrNotRunning):
			// already stopped, nothing to do
		default:
			log.Warn().Err(err).Str("gameID", game.ID).Msg("supervisor: preset stop failed")
		}
	}
	return models.StopPresetResponse{Status: "success", Stopped: stopped}
}

// EmergencyStopAll best-effort terminates every running helper and
// closes every open session. Individual termination failures never
// propagate.
func (s *Supervisor) EmergencyStopAll() []string {
	running := s.reg.Running()
	stopped := s.reg.TerminateAll()

	now := s.clock.Now()
	for _, handle := range running {
		s.ldg.CloseSession(handle.GameID, now)
		notifications.GameStopped(s.ns, handle.GameID)
	}
	s.persistBestEffort()
	return stopped
}

// DetectRunning adopts helpers started outside the service, opening
// their sessions at the processes' real start times so elapsed runtime
// is not under-counted.
func (s *Supervisor) DetectRunning(ctx context.Context) []string {
	adopted := s.reg.DetectExternal(s.helperName())

	ids := make([]string, 0, len(adopted))
	for _, handle := range adopted {
		s.openSession(ctx, handle.GameID, handle.StartedAt)
		ids = append(ids, handle.GameID)
	}
	if len(ids) > 0 {
		notifications.GamesDetected(s.ns, ids)
	}
	return ids
}

// ToggleAutoReconnect flips the crash-respawn policy and persists it.
func (s *Supervisor) ToggleAutoReconnect(enabled bool) {
	s.cfg.SetAutoReconnect(enabled)
	if err := s.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("supervisor: failed to save config")
	}
}

// SetGoal creates or updates the playtime goal for a game.
func (s *Supervisor) SetGoal(gameID string, targetHours float64) (goals.Goal, error) {
	return s.goals.Set(gameID, targetHours, s.clock.Now())
}

// ExportStatistics renders the full ledger in the given format.
func (s *Supervisor) ExportStatistics(format string) ([]byte, string, error) {
	now := s.clock.Now()
	return export.Statistics(s.ldg.Entries(now), format, now)
}

// DisplayName returns the cached display name for a game, or "" when
// none was ever resolved.
func (s *Supervisor) DisplayName(gameID string) string {
	meta, ok := s.ldg.Meta(gameID)
	if !ok {
		return ""
	}
	return meta.DisplayName
}

// Running returns the currently registered helpers.
func (s *Supervisor) Running() []registry.Handle {
	return s.reg.Running()
}

// Entries returns a snapshot of the statistics ledger.
func (s *Supervisor) Entries() []ledger.Entry {
	return s.ldg.Entries(s.clock.Now())
}

// Run executes the background loops until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { s.crashLoop(ctx); return nil })
	g.Go(func() error { s.goalLoop(ctx); return nil })
	g.Go(func() error { s.flushLoop(ctx); return nil })
	return g.Wait()
}

// crashLoop periodically reconciles registry state against real OS
// process state.
func (s *Supervisor) crashLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(s.cfg.CrashCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.CheckCrashed()
		case <-ctx.Done():
			return
		}
	}
}

// CheckCrashed runs one crash-detection pass. Each game is handled
// independently so one failure cannot block the rest.
func (s *Supervisor) CheckCrashed() {
	for _, handle := range s.reg.Running() {
		alive, registered := s.reg.Alive(handle.GameID)
		if !registered || alive {
			continue
		}

		if s.cfg.AutoReconnect() {
			pid, err := s.reg.Respawn(handle.GameID)
			if err == nil {
				// The session stays open and active_start is not
				// reset: the crash-to-respawn gap is absorbed as idle
				// time on the assumption that relaunch is
				// near-instantaneous.
				log.Warn().
					Str("gameID", handle.GameID).
					Int("oldPID", handle.PID).
					Int("newPID", pid).
					Msg("supervisor: helper crashed, respawned")
				notifications.GameReconnected(s.ns, handle.GameID)
				continue
			}
			log.Error().Err(err).Str("gameID", handle.GameID).
				Msg("supervisor: respawn failed, pruning")
		}

		s.reg.Remove(handle.GameID)
		s.ldg.CloseSession(handle.GameID, s.clock.Now())
		log.Warn().Str("gameID", handle.GameID).Int("pid", handle.PID).
			Msg("supervisor: helper crashed, session closed")
		notifications.GameCrashed(s.ns, handle.GameID)
	}
	s.persistBestEffort()
}

// goalLoop periodically evaluates playtime goals.
func (s *Supervisor) goalLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(s.cfg.GoalCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.CheckGoals()
		case <-ctx.Done():
			return
		}
	}
}

// CheckGoals fires a one-time notification for every goal whose game
// crossed its target. The notified flag is persisted before the event
// is emitted so a goal can never fire twice.
func (s *Supervisor) CheckGoals() {
	now := s.clock.Now()
	for _, goal := range s.goals.Pending() {
		total := s.ldg.CurrentTotal(goal.GameID, now)
		if total < goal.Target() {
			continue
		}

		if err := s.goals.MarkNotified(goal.ID); err != nil {
			log.Error().Err(err).Str("goalID", goal.ID).
				Msg("supervisor: failed to persist goal notification")
			continue
		}

		name := goal.GameID
		if meta, ok := s.ldg.Meta(goal.GameID); ok && meta.DisplayName != "" {
			name = meta.DisplayName
		}
		log.Info().Str("gameID", goal.GameID).Float64("targetHours", goal.TargetHours).
			Msg("supervisor: playtime goal reached")
		notifications.GoalReached(s.ns, models.GoalReachedParams{
			GameID:      goal.GameID,
			Name:        name,
			TargetHours: goal.TargetHours,
		})
	}
}

// flushLoop periodically snapshots in-flight session time to disk so
// an abnormal exit loses at most one interval of playtime.
func (s *Supervisor) flushLoop(ctx context.Context) {
	ticker := s.clock.NewTicker(s.cfg.StatsFlushInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if err := s.ldg.Flush(s.clock.Now()); err != nil {
				log.Error().Err(err).Msg("supervisor: periodic stats flush failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// openSession opens the ledger session, fetching metadata once for
// games never seen before. Fetch failures are logged and leave an
// empty record; the name can still arrive via a later explicit fetch.
func (s *Supervisor) openSession(ctx context.Context, gameID string, startedAt time.Time) {
	var meta ledger.Meta
	if s.meta != nil && !s.ldg.Known(gameID) {
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		fetched, err := s.meta.Fetch(fetchCtx, gameID)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("gameID", gameID).
				Msg("supervisor: metadata fetch failed")
		} else {
			meta = fetched
		}
	}
	s.ldg.OpenSession(gameID, startedAt, meta)
}

func (s *Supervisor) persistBestEffort() {
	if err := s.ldg.Persist(); err != nil {
		log.Error().Err(err).Msg("supervisor: failed to persist stats")
	}
}

func (s *Supervisor) helperName() string {
	if path := s.cfg.IdlerPath(); path != "" {
		return filepath.Base(path)
	}
	return config.HelperBinName
}
