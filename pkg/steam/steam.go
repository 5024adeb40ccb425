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

// Package steam is the thin glue around the local Steam client:
// install path discovery, client liveness, connectivity and launch.
package steam

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sidle-app/sidle/pkg/shared/httpclient"
)

const communityURL = "https://steamcommunity.com/"

// ErrNotInstalled is returned when no Steam installation is found.
var ErrNotInstalled = errors.New("steam installation not found")

// Status describes the local Steam client's state.
type Status struct {
	Message string `json:"message"`
	Running bool   `json:"running"`
	Online  bool   `json:"online"`
}

// IsRunning reports whether a Steam client process exists.
func IsRunning() bool {
	procs, err := process.Processes()
	if err != nil {
		log.Warn().Err(err).Msg("steam: failed to list processes")
		return false
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		switch strings.ToLower(name) {
		case "steam.exe", "steam":
			return true
		}
	}
	return false
}

// CheckStatus reports whether Steam is running and whether the Steam
// network is reachable. Helpers cannot idle while Steam is offline, so
// callers gate batch starts on this.
func CheckStatus(ctx context.Context, client *http.Client) Status {
	if !IsRunning() {
		return Status{Running: false, Online: false, Message: "Steam is not running"}
	}

	if httpclient.Reachable(ctx, client, communityURL) {
		return Status{Running: true, Online: true, Message: "Steam is running and online"}
	}
	return Status{Running: true, Online: false, Message: "Steam is running but appears to be offline"}
}

// Launch starts the Steam client from its install directory.
func Launch() error {
	dir, err := InstallDir()
	if err != nil {
		return err
	}

	bin := filepath.Join(dir, steamBinary())
	if _, err := os.Stat(bin); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.Command(bin)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()

	log.Info().Str("bin", bin).Msg("steam: client launch initiated")
	return nil
}

func steamBinary() string {
	if runtime.GOOS == "windows" {
		return "Steam.exe"
	}
	return "steam"
}
