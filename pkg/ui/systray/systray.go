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

// Package systray renders the tray presence. The menu itself is a
// pure data model built by BuildMenu; this file maps it onto
// fyne.io/systray and dispatches clicks back into the service.
package systray

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"fyne.io/systray"
	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/service"
	"github.com/sidle-app/sidle/pkg/steam"
	"golang.design/x/clipboard"
)

func openCommand() string {
	switch runtime.GOOS {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

// localIP returns the primary outbound interface address.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer func() { _ = conn.Close() }()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

// snapshot gathers the tray state from the running service.
func snapshot(cfg *config.Instance, inst *service.Instance, address string) State {
	handles := inst.Supervisor.Running()
	running := make([]RunningGame, 0, len(handles))
	for _, h := range handles {
		st := inst.Supervisor.SessionTime(h.GameID)
		name := inst.Supervisor.DisplayName(h.GameID)
		running = append(running, RunningGame{
			ID:      h.GameID,
			Name:    name,
			Session: st.CurrentSession,
		})
	}

	var presetNames []string
	if list, err := inst.Env.Presets.List(); err == nil {
		for _, p := range list {
			presetNames = append(presetNames, p.Name)
		}
	}

	return State{
		Address:       address,
		Version:       config.AppVersion,
		Running:       running,
		Presets:       presetNames,
		AutoReconnect: cfg.AutoReconnect(),
		DebugLogging:  cfg.DebugLogging(),
	}
}

type tray struct {
	cfg     *config.Instance
	inst    *service.Instance
	address string
	openCmd string
}

// render maps the menu model onto systray items and starts one click
// listener per actionable item. Listeners die with ctx when the menu
// is rebuilt.
func (t *tray) render(ctx context.Context, items []Item) {
	for _, item := range items {
		if item.Separator {
			systray.AddSeparator()
			continue
		}

		m := systray.AddMenuItem(item.Title, item.Tooltip)
		if item.Disabled {
			m.Disable()
		}
		if item.Checked {
			m.Check()
		}
		if item.Action == ActionNone {
			continue
		}

		go func(item Item, clicked <-chan struct{}) {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-clicked:
					if !ok {
						return
					}
					t.dispatch(item)
				}
			}
		}(item, m.ClickedCh)
	}
}

func (t *tray) dispatch(item Item) {
	switch item.Action {
	case ActionCopyAddress:
		if err := clipboard.Init(); err != nil {
			log.Error().Err(err).Msg("tray: initializing clipboard")
			return
		}
		clipboard.Write(clipboard.FmtText, []byte(t.address))
	case ActionStopGame:
		if err := t.inst.Supervisor.StopGame(item.Arg); err != nil {
			log.Error().Err(err).Str("gameID", item.Arg).Msg("tray: stopping game")
		}
	case ActionRunPreset:
		go func() {
			result, err := t.inst.Supervisor.RunPresetByName(context.Background(), item.Arg)
			if err != nil {
				log.Error().Err(err).Str("preset", item.Arg).Msg("tray: running preset")
				return
			}
			log.Info().Str("preset", item.Arg).Str("status", result.Status).Msg("tray: preset run")
		}()
	case ActionEmergencyStop:
		stopped := t.inst.Supervisor.EmergencyStopAll()
		log.Info().Strs("stopped", stopped).Msg("tray: emergency stop")
	case ActionDetectRunning:
		adopted := t.inst.Supervisor.DetectRunning(context.Background())
		log.Info().Strs("adopted", adopted).Msg("tray: detected running games")
	case ActionToggleRecon:
		t.inst.Supervisor.ToggleAutoReconnect(!t.cfg.AutoReconnect())
	case ActionOpenConfig:
		t.open(t.cfg.Path())
	case ActionOpenLog:
		t.open(filepath.Join(helpers.LogDir(), config.LogFile))
	case ActionOpenDataDir:
		t.open(helpers.DataDir())
	case ActionAbout:
		msg := "Sidle\n" +
			"Version v%s\n\n" +
			"© %d The Sidle Project Contributors\n" +
			"License: GPLv3"
		dialog.Message(msg, config.AppVersion, time.Now().Year()).Title("About Sidle").Info()
	case ActionQuit:
		systray.Quit()
	case ActionNone:
	}
}

func (t *tray) open(path string) {
	if err := exec.Command(t.openCmd, path).Start(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("tray: opening path")
	}
}

// steamSplash warns once at startup when the Steam client is not
// running, offering to launch it.
func steamSplash() {
	if steam.IsRunning() {
		return
	}
	ok := dialog.Message("Steam does not appear to be running.\n\nStart it now?").
		Title("Sidle").YesNo()
	if !ok {
		return
	}
	if err := steam.Launch(); err != nil {
		log.Error().Err(err).Msg("tray: launching steam")
		dialog.Message("Could not start Steam: %v", err).Title("Sidle").Error()
	}
}

func onReady(cfg *config.Instance, inst *service.Instance, icon []byte) func() {
	return func() {
		systray.SetIcon(icon)
		if runtime.GOOS != "darwin" {
			systray.SetTitle("Sidle")
		}
		systray.SetTooltip("Sidle")

		address := fmt.Sprintf("%s:%d", localIP(), cfg.APIPort())
		t := &tray{
			cfg:     cfg,
			inst:    inst,
			address: address,
			openCmd: openCommand(),
		}

		ctx, cancel := context.WithCancel(context.Background())
		t.render(ctx, BuildMenu(snapshot(cfg, inst, address)))

		go steamSplash()

		// Rebuild the whole menu on a timer so running games and
		// session times stay current.
		go func() {
			ticker := time.NewTicker(cfg.TrayRefreshInterval())
			defer ticker.Stop()
			for range ticker.C {
				cancel()
				ctx, cancel = context.WithCancel(context.Background())
				systray.ResetMenu()
				t.render(ctx, BuildMenu(snapshot(cfg, inst, address)))
			}
		}()
	}
}

// Run blocks on the OS tray loop. It must be called from the main
// goroutine; exit runs after Quit.
func Run(cfg *config.Instance, inst *service.Instance, icon []byte, exit func()) {
	systray.Run(onReady(cfg, inst, icon), exit)
}

// Quit ends the tray loop, unblocking Run.
func Quit() {
	systray.Quit()
}
