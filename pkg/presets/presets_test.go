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

package presets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := NewStore(fs, "/data/presets")

	games := []Game{
		{ID: "730", Name: "Counter-Strike 2"},
		{ID: "440", Name: "Team Fortress 2"},
	}
	require.NoError(t, s.Save("farm", games))

	got, err := s.Get("farm")
	require.NoError(t, err)
	assert.Equal(t, "farm", got.Name)
	assert.Equal(t, games, got.Games, "order preserved")
}

func TestSaveWritesLauncherScript(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := NewStore(fs, "/data/presets")

	require.NoError(t, s.Save("farm", []Game{{ID: "730"}, {ID: "440"}}))

	data, err := afero.ReadFile(fs, "/data/presets/farm.bat")
	require.NoError(t, err)
	assert.Equal(t, "@echo off\r\nstart steam-idle.exe 730\r\nstart steam-idle.exe 440\r\n", string(data))
}

func TestSaveReplaces(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), "/data/presets")

	require.NoError(t, s.Save("farm", []Game{{ID: "730"}}))
	require.NoError(t, s.Save("farm", []Game{{ID: "440"}}))

	got, err := s.Get("farm")
	require.NoError(t, err)
	require.Len(t, got.Games, 1)
	assert.Equal(t, "440", got.Games[0].ID)
}

func TestListSorted(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), "/data/presets")
	require.NoError(t, s.Save("weekend", []Game{{ID: "1"}}))
	require.NoError(t, s.Save("farm", []Game{{ID: "2"}}))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "farm", list[0].Name)
	assert.Equal(t, "weekend", list[1].Name)
}

func TestListEmptyDir(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), "/data/presets")
	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteRemovesScript(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := NewStore(fs, "/data/presets")
	require.NoError(t, s.Save("farm", []Game{{ID: "730"}}))

	require.NoError(t, s.Delete("farm"))

	_, err := s.Get("farm")
	require.ErrorIs(t, err, ErrNotFound)
	exists, err := afero.Exists(fs, "/data/presets/farm.bat")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteUnknown(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), "/data/presets")
	require.ErrorIs(t, s.Delete("nope"), ErrNotFound)
}

func TestInvalidNames(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), "/data/presets")

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		require.ErrorIs(t, s.Save(name, []Game{{ID: "1"}}), ErrInvalidName, "name %q", name)
		_, err := s.Get(name)
		require.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}
