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

func (c *Instance) Theme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.UI.Theme == "" {
		return "dark"
	}
	return c.vals.UI.Theme
}

func (c *Instance) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.UI.Theme = theme
}

// MinimizeToTray returns true if closing the UI window should keep the
// service alive in the tray. Enabled by default.
func (c *Instance) MinimizeToTray() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.UI.MinimizeToTray == nil {
		return true
	}
	return *c.vals.UI.MinimizeToTray
}

func (c *Instance) SetMinimizeToTray(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.UI.MinimizeToTray = &enabled
}

func (c *Instance) RunOnStartup() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.UI.RunOnStartup
}

func (c *Instance) SetRunOnStartup(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.UI.RunOnStartup = enabled
}

func (c *Instance) DiscordPresence() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.UI.DiscordPresence
}

func (c *Instance) SetDiscordPresence(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.UI.DiscordPresence = enabled
}

func (c *Instance) SetupComplete() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.UI.SetupComplete
}

func (c *Instance) SetSetupComplete(complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.UI.SetupComplete = complete
}
