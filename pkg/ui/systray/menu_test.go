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

package systray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findByAction(items []Item, action Action) []Item {
	var out []Item
	for _, item := range items {
		if item.Action == action {
			out = append(out, item)
		}
	}
	return out
}

func TestBuildMenuEmptyState(t *testing.T) {
	t.Parallel()

	items := BuildMenu(State{Address: "10.0.0.5:7713", Version: "1.3.0"})

	assert.Equal(t, "Address: 10.0.0.5:7713", items[0].Title)

	var idle bool
	for _, item := range items {
		if item.Title == "No games running" {
			idle = true
			assert.True(t, item.Disabled)
		}
	}
	assert.True(t, idle)

	assert.Empty(t, findByAction(items, ActionStopGame))
	assert.Empty(t, findByAction(items, ActionRunPreset))
	assert.Len(t, findByAction(items, ActionQuit), 1)
}

func TestBuildMenuRunningGames(t *testing.T) {
	t.Parallel()

	items := BuildMenu(State{
		Address: "10.0.0.5:7713",
		Running: []RunningGame{
			{ID: "730", Name: "Counter-Strike 2", Session: "01:02:03"},
			{ID: "440", Session: "00:10:00"},
		},
	})

	stops := findByAction(items, ActionStopGame)
	require.Len(t, stops, 2)
	assert.Equal(t, "Stop Counter-Strike 2 (01:02:03)", stops[0].Title)
	assert.Equal(t, "730", stops[0].Arg)
	// Nameless games fall back to their id.
	assert.Equal(t, "Stop 440 (00:10:00)", stops[1].Title)
}

func TestBuildMenuPresets(t *testing.T) {
	t.Parallel()

	items := BuildMenu(State{Presets: []string{"farm", "weekend"}})

	runs := findByAction(items, ActionRunPreset)
	require.Len(t, runs, 2)
	assert.Equal(t, "farm", runs[0].Arg)
	assert.Equal(t, "weekend", runs[1].Arg)
}

func TestBuildMenuAutoReconnectChecked(t *testing.T) {
	t.Parallel()

	on := findByAction(BuildMenu(State{AutoReconnect: true}), ActionToggleRecon)
	off := findByAction(BuildMenu(State{}), ActionToggleRecon)
	require.Len(t, on, 1)
	require.Len(t, off, 1)
	assert.True(t, on[0].Checked)
	assert.False(t, off[0].Checked)
}

func TestBuildMenuDebugEntry(t *testing.T) {
	t.Parallel()

	assert.Empty(t, findByAction(BuildMenu(State{}), ActionOpenDataDir))
	assert.Len(t, findByAction(BuildMenu(State{DebugLogging: true}), ActionOpenDataDir), 1)
}

func TestBuildMenuIsPure(t *testing.T) {
	t.Parallel()

	st := State{
		Address: "10.0.0.5:7713",
		Running: []RunningGame{{ID: "730", Session: "00:00:01"}},
		Presets: []string{"farm"},
	}
	assert.Equal(t, BuildMenu(st), BuildMenu(st))
}
