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

package ledger

import (
	"testing"
	"time"

	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger() *Ledger {
	return New(afero.NewMemMapFs(), "/data/stats.json")
}

func TestOpenCloseAccumulates(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(65 * time.Second)

	l.OpenSession("100", t0, Meta{DisplayName: "Test Game"})
	require.True(t, l.CloseSession("100", t1))

	assert.Equal(t, 65*time.Second, l.CurrentTotal("100", t1))
	assert.Equal(t, "00:01:05", helpers.FormatDuration(l.CurrentTotal("100", t1)))
}

func TestSessionTimeScenario(t *testing.T) {
	t.Parallel()

	// Start game "100" at t=0, query at t=65s: session reports
	// 00:01:05; stop at t=65s: persisted total is 65 seconds.
	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	l.OpenSession("100", t0, Meta{})

	elapsed, active := l.SessionElapsed("100", t0.Add(65*time.Second))
	require.True(t, active)
	assert.Equal(t, "00:01:05", helpers.FormatDuration(elapsed))

	require.True(t, l.CloseSession("100", t0.Add(65*time.Second)))
	require.NoError(t, l.Persist())
	require.NoError(t, l.Reload())

	assert.Equal(t, 65*time.Second, l.CurrentTotal("100", t0.Add(time.Hour)))
}

func TestCurrentTotalMonotonicWhileRunning(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.OpenSession("100", t0, Meta{})

	prev := time.Duration(-1)
	for i := range 10 {
		now := t0.Add(time.Duration(i) * 7 * time.Second)
		total := l.CurrentTotal("100", now)
		assert.GreaterOrEqual(t, total, prev)
		prev = total
	}
}

func TestCurrentTotalIsPure(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.OpenSession("100", t0, Meta{})

	now := t0.Add(30 * time.Second)
	first := l.CurrentTotal("100", now)
	second := l.CurrentTotal("100", now)
	assert.Equal(t, first, second)

	// Reading must not close the session.
	_, active := l.SessionElapsed("100", now)
	assert.True(t, active)
}

func TestDoubleCloseIsNoOp(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	l.OpenSession("100", t0, Meta{})
	require.True(t, l.CloseSession("100", t1))

	// Crash detection and explicit stop can race; the second close
	// must not add time or error.
	assert.False(t, l.CloseSession("100", t1.Add(time.Hour)))
	assert.Equal(t, time.Minute, l.CurrentTotal("100", t1.Add(time.Hour)))
}

func TestCloseUnknownGameIsNoOp(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	assert.False(t, l.CloseSession("999", time.Now()))
}

func TestNegativeElapsedClampedToZero(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.OpenSession("100", t0, Meta{})
	require.True(t, l.CloseSession("100", t0.Add(-time.Hour)))
	assert.Equal(t, time.Duration(0), l.CurrentTotal("100", t0))
}

func TestPersistReloadRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	l := New(fs, "/data/stats.json")
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.OpenSession("730", t0, Meta{DisplayName: "Counter-Strike 2", ImageURL: "https://img/730.jpg"})
	require.True(t, l.CloseSession("730", t0.Add(90*time.Second)))
	l.OpenSession("440", t0, Meta{DisplayName: "Team Fortress 2"})
	require.True(t, l.CloseSession("440", t0.Add(10*time.Second)))

	// Leave one session open: active state must not round-trip.
	l.OpenSession("570", t0, Meta{DisplayName: "Dota 2"})

	require.NoError(t, l.Persist())

	reloaded := New(fs, "/data/stats.json")
	require.NoError(t, reloaded.Reload())

	now := t0.Add(time.Hour)
	assert.Equal(t, 90*time.Second, reloaded.CurrentTotal("730", now))
	assert.Equal(t, 10*time.Second, reloaded.CurrentTotal("440", now))

	meta, ok := reloaded.Meta("730")
	require.True(t, ok)
	assert.Equal(t, "Counter-Strike 2", meta.DisplayName)
	assert.Equal(t, "https://img/730.jpg", meta.ImageURL)

	// The open session contributed nothing durable and is not active
	// after reload.
	assert.Equal(t, time.Duration(0), reloaded.CurrentTotal("570", now))
	_, active := reloaded.SessionElapsed("570", now)
	assert.False(t, active)
}

func TestReloadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	require.NoError(t, l.Reload())
	assert.Empty(t, l.Entries(time.Now()))
}

func TestFlushSnapshotsInFlightWithoutMutating(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	l := New(fs, "/data/stats.json")
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.OpenSession("100", t0, Meta{})
	require.NoError(t, l.Flush(t0.Add(40*time.Second)))

	// The persisted snapshot includes the in-flight 40s.
	onDisk := New(fs, "/data/stats.json")
	require.NoError(t, onDisk.Reload())
	assert.Equal(t, 40*time.Second, onDisk.CurrentTotal("100", t0.Add(time.Hour)))

	// The live ledger still has the session open and did not fold the
	// snapshot into its durable total, so a later close does not
	// double-count.
	require.True(t, l.CloseSession("100", t0.Add(60*time.Second)))
	assert.Equal(t, 60*time.Second, l.CurrentTotal("100", t0.Add(time.Hour)))
}

func TestMetaOnlySetOnFirstOpen(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.OpenSession("100", t0, Meta{DisplayName: "Good Name"})
	require.True(t, l.CloseSession("100", t0.Add(time.Second)))

	// A later open with empty meta must not wipe the cached name.
	l.OpenSession("100", t0.Add(time.Minute), Meta{})

	meta, ok := l.Meta("100")
	require.True(t, ok)
	assert.Equal(t, "Good Name", meta.DisplayName)
}

func TestEntriesSortedAndMarked(t *testing.T) {
	t.Parallel()

	l := newTestLedger()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.OpenSession("570", t0, Meta{DisplayName: "Dota 2"})
	l.OpenSession("100", t0, Meta{DisplayName: "Other"})
	require.True(t, l.CloseSession("100", t0.Add(5*time.Second)))

	entries := l.Entries(t0.Add(10 * time.Second))
	require.Len(t, entries, 2)
	assert.Equal(t, "100", entries[0].GameID)
	assert.False(t, entries[0].Active)
	assert.Equal(t, 5*time.Second, entries[0].Accumulated)
	assert.Equal(t, "570", entries[1].GameID)
	assert.True(t, entries[1].Active)
	assert.Equal(t, 10*time.Second, entries[1].Accumulated)
}
