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

import "time"

// IdlerPath returns the configured path to the idler helper binary.
func (c *Instance) IdlerPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Idler.BinaryPath
}

func (c *Instance) SetIdlerPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Idler.BinaryPath = path
}

// AutoReconnect returns true if crashed helpers should be respawned by
// the supervisor. Disabled by default.
func (c *Instance) AutoReconnect() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Idler.AutoReconnect == nil {
		return false
	}
	return *c.vals.Idler.AutoReconnect
}

func (c *Instance) SetAutoReconnect(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Idler.AutoReconnect = &enabled
}

// DetectOnStart returns true if already-running helpers should be
// adopted when the service starts. Enabled by default.
func (c *Instance) DetectOnStart() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Idler.DetectOnStart == nil {
		return true
	}
	return *c.vals.Idler.DetectOnStart
}

func (c *Instance) SetDetectOnStart(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Idler.DetectOnStart = &enabled
}

// StartRetries returns the number of spawn attempts made per game when
// running a preset.
func (c *Instance) StartRetries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Idler.StartRetries <= 0 {
		return 3
	}
	return c.vals.Idler.StartRetries
}

// RetryDelay returns the pause between preset start retry rounds.
func (c *Instance) RetryDelay() time.Duration {
	return c.duration(func(v *Values) string { return v.Idler.RetryDelay }, 2*time.Second)
}

// CrashCheckInterval returns the cadence of the supervisor's crash
// detection pass.
func (c *Instance) CrashCheckInterval() time.Duration {
	return c.duration(func(v *Values) string { return v.Service.CrashCheck }, 2*time.Minute)
}

// GoalCheckInterval returns the cadence of playtime goal evaluation.
func (c *Instance) GoalCheckInterval() time.Duration {
	return c.duration(func(v *Values) string { return v.Service.GoalCheck }, time.Minute)
}

// StatsFlushInterval returns the cadence of the periodic statistics
// flush to disk.
func (c *Instance) StatsFlushInterval() time.Duration {
	return c.duration(func(v *Values) string { return v.Service.StatsFlush }, time.Minute)
}

// TrayRefreshInterval returns the cadence of tray menu re-renders.
func (c *Instance) TrayRefreshInterval() time.Duration {
	return c.duration(func(v *Values) string { return v.Service.TrayRefresh }, 30*time.Second)
}

// duration parses a duration field, falling back to def when the field
// is empty or unparseable.
func (c *Instance) duration(get func(*Values) string, def time.Duration) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := get(&c.vals)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
