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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCreatesDefaultFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, CfgFile))
	assert.Equal(t, DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, "dark", cfg.Theme())
	assert.NotEmpty(t, cfg.DeviceID(), "device id generated on first save")
}

func TestDeviceIDStableAcrossLoads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	id := cfg.DeviceID()

	cfg2, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, id, cfg2.DeviceID())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetAutoReconnect(true)
	cfg.SetTheme("light")
	cfg.SetIdlerPath(`C:\tools\steam-idle.exe`)
	require.NoError(t, cfg.Save())

	cfg2, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.True(t, cfg2.AutoReconnect())
	assert.Equal(t, "light", cfg2.Theme())
	assert.Equal(t, `C:\tools\steam-idle.exe`, cfg2.IdlerPath())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, CfgFile)

	// Partial file: only the schema and one field.
	data := "config_schema = 1\n\n[idler]\nstart_retries = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.StartRetries())
	// Absent fields keep their defaults.
	assert.Equal(t, DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, "dark", cfg.Theme())
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, CfgFile)
	require.NoError(t, os.WriteFile(path, []byte("config_schema = 99\n"), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
}

func TestDurationSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, CfgFile)
	data := "config_schema = 1\n\n[service]\ncrash_check = \"30s\"\ngoal_check = \"bogus\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.CrashCheckInterval())
	// Unparseable values fall back to the default.
	assert.Equal(t, time.Minute, cfg.GoalCheckInterval())
}

func TestIdlerDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)

	assert.False(t, cfg.AutoReconnect())
	assert.True(t, cfg.DetectOnStart())
	assert.Equal(t, 3, cfg.StartRetries())
	assert.Equal(t, 2*time.Second, cfg.RetryDelay())
	assert.True(t, cfg.MinimizeToTray())
}
