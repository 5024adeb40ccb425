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
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// HelperInfo describes a helper process found during an external scan.
type HelperInfo struct {
	StartedAt time.Time
	GameID    string
	PID       int
}

// Procs abstracts the OS process operations the registry needs, so
// tests can run without spawning real processes.
type Procs interface {
	// Spawn launches the helper binary with gameID as its only
	// argument and returns the new pid.
	Spawn(binPath, gameID string) (int, error)
	// Alive reports whether pid refers to a live process.
	Alive(pid int) bool
	// TerminateTree terminates pid's children first, then pid itself.
	// A process that no longer exists is not an error.
	TerminateTree(pid int) error
	// FindHelpers returns all processes whose executable base name
	// matches helperName and whose first argument is a game id.
	FindHelpers(helperName string) ([]HelperInfo, error)
}

// osProcs is the gopsutil-backed Procs implementation.
type osProcs struct{}

func (*osProcs) Spawn(binPath, gameID string) (int, error) {
	cmd := exec.Command(binPath, gameID)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("exec %s: %w", binPath, err)
	}
	pid := cmd.Process.Pid

	// Reap the child when it exits so it never lingers as a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return pid, nil
}

func (*osProcs) Alive(pid int) bool {
	alive, err := process.PidExists(int32(pid)) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		return false
	}
	return alive
}

func (*osProcs) TerminateTree(pid int) error {
	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		// Process already gone: termination is idempotent.
		return nil
	}

	// The helper may fork a worker that would survive it, so children
	// are terminated before the parent.
	children, err := proc.Children()
	if err == nil {
		for _, child := range children {
			if termErr := child.Terminate(); termErr != nil {
				log.Debug().
					Err(termErr).
					Int32("pid", child.Pid).
					Msg("registry: child terminate failed")
			}
		}
	}

	if err := proc.Terminate(); err != nil {
		// Between lookup and signal the process may have exited.
		if exists, exErr := process.PidExists(int32(pid)); exErr == nil && !exists { //nolint:gosec // G115
			return nil
		}
		return fmt.Errorf("terminate pid %d: %w", pid, err)
	}
	return nil
}

func (*osProcs) FindHelpers(helperName string) ([]HelperInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var found []HelperInfo
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if !matchesHelperName(name, helperName) {
			continue
		}

		args, err := p.CmdlineSlice()
		if err != nil || len(args) < 2 {
			continue
		}
		gameID := args[1]
		if _, err := strconv.Atoi(gameID); err != nil {
			continue
		}

		startedAt := time.Now()
		if createMs, err := p.CreateTime(); err == nil && createMs > 0 {
			startedAt = time.UnixMilli(createMs)
		}

		found = append(found, HelperInfo{
			GameID:    gameID,
			PID:       int(p.Pid),
			StartedAt: startedAt,
		})
	}
	return found, nil
}

// matchesHelperName compares a process name against the helper binary
// name, tolerating the .exe suffix on Windows.
func matchesHelperName(procName, helperName string) bool {
	procName = strings.ToLower(procName)
	helperName = strings.ToLower(helperName)
	return procName == helperName || procName == helperName+".exe"
}
