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

// Package ledger tracks cumulative idling time per game. It converts
// discrete session open/close events into a durable elapsed-time total
// persisted as a flat JSON mapping keyed by game id.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
	"github.com/spf13/afero"
)

// Meta is descriptive game metadata, fetched once and cached alongside
// the playtime total.
type Meta struct {
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
}

// record is the persisted shape of one game's statistics. The active
// session start is deliberately excluded: it is meaningless across a
// restart, where a fresh helper always begins a new session.
type record struct {
	DisplayName        string  `json:"display_name"`
	ImageURL           string  `json:"image_url"`
	AccumulatedSeconds float64 `json:"accumulated_seconds"`
}

// session is the in-memory state for one game.
type session struct {
	activeStart time.Time // zero when no session is open
	meta        Meta
	accumulated time.Duration
}

// Entry is a read-only snapshot of one game's statistics, used for
// exports and the tray menu.
type Entry struct {
	GameID      string
	Meta        Meta
	Accumulated time.Duration
	Active      bool
}

// Ledger is the session accumulator. All methods are safe for
// concurrent use.
type Ledger struct {
	fs       afero.Fs
	path     string
	sessions map[string]*session
	mu       syncutil.RWMutex
}

// New creates a ledger persisting to path on fs. Call Reload to pick
// up previously saved totals.
func New(fs afero.Fs, path string) *Ledger {
	return &Ledger{
		fs:       fs,
		path:     path,
		sessions: make(map[string]*session),
	}
}

// Known reports whether the ledger already has a record for gameID,
// letting callers fetch metadata only once per game.
func (l *Ledger) Known(gameID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.sessions[gameID]
	return ok
}

// OpenSession marks gameID as running since startedAt. A record is
// created on first sight; meta is only applied to new records so a
// cached name is never clobbered by a later fetch failure.
func (l *Ledger) OpenSession(gameID string, startedAt time.Time, meta Meta) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sessions[gameID]
	if !ok {
		s = &session{meta: meta}
		l.sessions[gameID] = s
	}
	s.activeStart = startedAt

	log.Debug().Str("gameID", gameID).Time("startedAt", startedAt).Msg("ledger: session opened")
}

// CloseSession folds the elapsed time of the open session into the
// durable total and clears the active marker. Closing a game with no
// open session is a no-op, not an error: crash detection and explicit
// stop can race on the same game.
func (l *Ledger) CloseSession(gameID string, endedAt time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sessions[gameID]
	if !ok || s.activeStart.IsZero() {
		return false
	}

	elapsed := endedAt.Sub(s.activeStart)
	if elapsed < 0 {
		elapsed = 0
	}
	s.accumulated += elapsed
	s.activeStart = time.Time{}

	log.Debug().
		Str("gameID", gameID).
		Dur("elapsed", elapsed).
		Dur("total", s.accumulated).
		Msg("ledger: session closed")
	return true
}

// SessionElapsed returns the in-flight duration of the open session,
// or false if no session is open.
func (l *Ledger) SessionElapsed(gameID string, now time.Time) (time.Duration, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.sessions[gameID]
	if !ok || s.activeStart.IsZero() {
		return 0, false
	}
	elapsed := now.Sub(s.activeStart)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, true
}

// CurrentTotal returns the durable total plus any in-flight session
// time. It never mutates state.
func (l *Ledger) CurrentTotal(gameID string, now time.Time) time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.sessions[gameID]
	if !ok {
		return 0
	}
	total := s.accumulated
	if !s.activeStart.IsZero() {
		if elapsed := now.Sub(s.activeStart); elapsed > 0 {
			total += elapsed
		}
	}
	return total
}

// Meta returns the cached metadata for gameID.
func (l *Ledger) Meta(gameID string) (Meta, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sessions[gameID]
	if !ok {
		return Meta{}, false
	}
	return s.meta, true
}

// SetMeta updates the cached metadata for an existing record.
func (l *Ledger) SetMeta(gameID string, meta Meta) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sessions[gameID]; ok {
		s.meta = meta
	}
}

// Entries returns a stable-ordered snapshot of every known game.
func (l *Ledger) Entries(now time.Time) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, 0, len(l.sessions))
	for id, s := range l.sessions {
		total := s.accumulated
		active := !s.activeStart.IsZero()
		if active {
			if elapsed := now.Sub(s.activeStart); elapsed > 0 {
				total += elapsed
			}
		}
		entries = append(entries, Entry{
			GameID:      id,
			Meta:        s.meta,
			Accumulated: total,
			Active:      active,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GameID < entries[j].GameID })
	return entries
}

// Persist writes durable totals to disk. In-flight session time is not
// included; use Flush for the periodic snapshot.
func (l *Ledger) Persist() error {
	l.mu.RLock()
	records := make(map[string]record, len(l.sessions))
	for id, s := range l.sessions {
		records[id] = record{
			AccumulatedSeconds: s.accumulated.Seconds(),
			DisplayName:        s.meta.DisplayName,
			ImageURL:           s.meta.ImageURL,
		}
	}
	l.mu.RUnlock()

	return l.write(records)
}

// Flush persists a snapshot where each open session's in-flight time is
// added to its durable total, without mutating live state or closing
// the session. This bounds data loss on abnormal termination to one
// flush interval without double-counting on the next regular close.
func (l *Ledger) Flush(now time.Time) error {
	l.mu.RLock()
	records := make(map[string]record, len(l.sessions))
	for id, s := range l.sessions {
		total := s.accumulated
		if !s.activeStart.IsZero() {
			if elapsed := now.Sub(s.activeStart); elapsed > 0 {
				total += elapsed
			}
		}
		records[id] = record{
			AccumulatedSeconds: total.Seconds(),
			DisplayName:        s.meta.DisplayName,
			ImageURL:           s.meta.ImageURL,
		}
	}
	l.mu.RUnlock()

	return l.write(records)
}

// Reload replaces in-memory totals with the persisted mapping. Open
// sessions are discarded: after a restart every game is considered
// stopped until detection re-attaches running helpers.
func (l *Ledger) Reload() error {
	data, err := afero.ReadFile(l.fs, l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var records map[string]record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal stats file: %w", err)
	}

	sessions := make(map[string]*session, len(records))
	for id, r := range records {
		secs := r.AccumulatedSeconds
		if secs < 0 {
			secs = 0
		}
		sessions[id] = &session{
			accumulated: time.Duration(secs * float64(time.Second)),
			meta: Meta{
				DisplayName: r.DisplayName,
				ImageURL:    r.ImageURL,
			},
		}
	}

	l.mu.Lock()
	l.sessions = sessions
	l.mu.Unlock()

	log.Info().Int("games", len(sessions)).Msg("ledger: stats loaded")
	return nil
}

func (l *Ledger) write(records map[string]record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := helpers.WriteFileAtomic(l.fs, l.path, data); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}
