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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
)

const (
	SchemaVersion = 1
	CfgEnv        = "SIDLE_CFG"
)

// Values is the full set of user-facing settings, serialized to the
// config.toml file.
type Values struct {
	Service      Service `toml:"service,omitempty"`
	Idler        Idler   `toml:"idler,omitempty"`
	UI           UI      `toml:"ui,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Service configures the local API and background loop cadence.
type Service struct {
	DeviceID      string `toml:"device_id,omitempty"`
	CrashCheck    string `toml:"crash_check,omitempty"`
	GoalCheck     string `toml:"goal_check,omitempty"`
	StatsFlush    string `toml:"stats_flush,omitempty"`
	TrayRefresh   string `toml:"tray_refresh,omitempty"`
	APIPort       int    `toml:"api_port,omitempty"`
	AllowAnnounce *bool  `toml:"allow_announce,omitempty"`
}

// Idler configures how helper processes are spawned and supervised.
type Idler struct {
	BinaryPath    string `toml:"binary_path,omitempty"`
	RetryDelay    string `toml:"retry_delay,omitempty"`
	AutoReconnect *bool  `toml:"auto_reconnect,omitempty"`
	DetectOnStart *bool  `toml:"detect_on_start,omitempty"`
	StartRetries  int    `toml:"start_retries,omitempty"`
}

// UI configures tray and frontend behavior.
type UI struct {
	Theme           string `toml:"theme,omitempty"`
	MinimizeToTray  *bool  `toml:"minimize_to_tray,omitempty"`
	RunOnStartup    bool   `toml:"run_on_startup"`
	DiscordPresence bool   `toml:"discord_presence"`
	SetupComplete   bool   `toml:"setup_complete"`
}

// BaseDefaults are the values used for a freshly created config file
// and as the fallback for fields missing from an existing one.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Service: Service{
		APIPort: DefaultAPIPort,
	},
	UI: UI{
		Theme: "dark",
	},
}

// Instance is a thread-safe view over the loaded config file.
type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the location of the backing config file.
func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top, so fields
	// not present in the file retain their default values.
	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema, SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.APIPort == 0 {
		return DefaultAPIPort
	}
	return c.vals.Service.APIPort
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

// AllowAnnounce returns true if the service may announce itself on the
// local network over mDNS. Enabled by default.
func (c *Instance) AllowAnnounce() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.AllowAnnounce == nil {
		return true
	}
	return *c.vals.Service.AllowAnnounce
}
