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

package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcs is an in-memory Procs implementation for tests.
type fakeProcs struct {
	spawnErr   error
	termErr    map[int]error
	alive      map[int]bool
	external   []HelperInfo
	terminated []int
	nextPID    int
	mu         sync.Mutex
}

func newFakeProcs() *fakeProcs {
	return &fakeProcs{
		alive:   make(map[int]bool),
		termErr: make(map[int]error),
		nextPID: 1000,
	}
}

func (f *fakeProcs) Spawn(_, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.spawnErr != nil {
		return 0, f.spawnErr
	}
	f.nextPID++
	f.alive[f.nextPID] = true
	return f.nextPID, nil
}

func (f *fakeProcs) Alive(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive[pid]
}

func (f *fakeProcs) TerminateTree(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.termErr[pid]; err != nil {
		return err
	}
	f.terminated = append(f.terminated, pid)
	delete(f.alive, pid)
	return nil
}

func (f *fakeProcs) FindHelpers(_ string) ([]HelperInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.external, nil
}

func (f *fakeProcs) kill(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.alive, pid)
}

func newTestRegistry(procs Procs) *Registry {
	return New(func() string { return "steam-idle" }, procs)
}

func TestStartRegistersHandle(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	pid, err := r.Start("730")
	require.NoError(t, err)
	assert.Positive(t, pid)
	assert.True(t, r.IsRunning("730"))
}

func TestStartAlreadyRunning(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	_, err := r.Start("730")
	require.NoError(t, err)

	_, err = r.Start("730")
	require.ErrorIs(t, err, ErrAlreadyRunning)

	// No second handle was created.
	assert.Len(t, r.Running(), 1)
}

func TestStartSpawnFailure(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	procs.spawnErr = errors.New("exec format error")
	r := newTestRegistry(procs)

	_, err := r.Start("730")
	require.Error(t, err)
	assert.ErrorContains(t, err, "exec format error")
	assert.False(t, r.IsRunning("730"))
}

func TestStopTerminatesAndDeregisters(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	pid, err := r.Start("730")
	require.NoError(t, err)

	require.NoError(t, r.Stop("730"))
	assert.False(t, r.IsRunning("730"))
	assert.Contains(t, procs.terminated, pid)
}

func TestStopNotRunning(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(newFakeProcs())

	err := r.Stop("730")
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestStopTwiceSecondReportsNotRunning(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	_, err := r.Start("730")
	require.NoError(t, err)

	require.NoError(t, r.Stop("730"))
	require.ErrorIs(t, r.Stop("730"), ErrNotRunning)
}

func TestStatusSelfHealsStaleEntry(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	pid, err := r.Start("730")
	require.NoError(t, err)

	running, healed := r.Status("730")
	assert.True(t, running)
	assert.False(t, healed)

	// Kill the process behind the registry's back.
	procs.kill(pid)

	running, healed = r.Status("730")
	assert.False(t, running)
	assert.True(t, healed)
	assert.False(t, r.IsRunning("730"))

	// A second query is a plain miss, not another heal.
	running, healed = r.Status("730")
	assert.False(t, running)
	assert.False(t, healed)
}

func TestTerminateAll(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	_, err := r.Start("730")
	require.NoError(t, err)
	pid440, err := r.Start("440")
	require.NoError(t, err)

	// One game already exited at the OS level.
	procs.kill(pid440)

	stopped := r.TerminateAll()

	// Only the genuinely terminated process is reported, but both are
	// removed from the registry.
	assert.Equal(t, []string{"730"}, stopped)
	assert.Empty(t, r.Running())
}

func TestTerminateAllIsolatesFailures(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	pid730, err := r.Start("730")
	require.NoError(t, err)
	_, err = r.Start("440")
	require.NoError(t, err)

	procs.mu.Lock()
	procs.termErr[pid730] = errors.New("access denied")
	procs.mu.Unlock()

	stopped := r.TerminateAll()

	assert.Equal(t, []string{"440"}, stopped)
	assert.Empty(t, r.Running())
}

func TestDetectExternalAdoptsWithRealStartTime(t *testing.T) {
	t.Parallel()

	startedAt := time.Now().Add(-42 * time.Minute)
	procs := newFakeProcs()
	procs.external = []HelperInfo{
		{GameID: "730", PID: 555, StartedAt: startedAt},
	}
	r := newTestRegistry(procs)

	adopted := r.DetectExternal("steam-idle")
	require.Len(t, adopted, 1)
	assert.Equal(t, "730", adopted[0].GameID)
	assert.Equal(t, 555, adopted[0].PID)
	assert.True(t, adopted[0].Adopted)
	assert.Equal(t, startedAt, adopted[0].StartedAt)

	// Re-running does not adopt the same helper twice.
	assert.Empty(t, r.DetectExternal("steam-idle"))
}

func TestDetectExternalSkipsRegisteredGames(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	_, err := r.Start("730")
	require.NoError(t, err)

	procs.mu.Lock()
	procs.external = []HelperInfo{
		{GameID: "730", PID: 555, StartedAt: time.Now()},
		{GameID: "440", PID: 556, StartedAt: time.Now()},
	}
	procs.mu.Unlock()

	adopted := r.DetectExternal("steam-idle")
	require.Len(t, adopted, 1)
	assert.Equal(t, "440", adopted[0].GameID)
}

func TestRespawnKeepsRegistration(t *testing.T) {
	t.Parallel()

	procs := newFakeProcs()
	r := newTestRegistry(procs)

	oldPID, err := r.Start("730")
	require.NoError(t, err)
	procs.kill(oldPID)

	newPID, err := r.Respawn("730")
	require.NoError(t, err)
	assert.NotEqual(t, oldPID, newPID)
	assert.True(t, r.IsRunning("730"))

	handles := r.Running()
	require.Len(t, handles, 1)
	assert.Equal(t, newPID, handles[0].PID)
}

func TestMatchesHelperName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		procName   string
		helperName string
		want       bool
	}{
		{"steam-idle", "steam-idle", true},
		{"steam-idle.exe", "steam-idle", true},
		{"Steam-Idle.EXE", "steam-idle", true},
		{"steam", "steam-idle", false},
		{"steam-idler", "steam-idle", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesHelperName(tt.procName, tt.helperName),
			"%s vs %s", tt.procName, tt.helperName)
	}
}
