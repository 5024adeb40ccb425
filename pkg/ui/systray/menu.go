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

import "fmt"

// Action identifies what a menu item does when clicked.
type Action string

const (
	ActionNone           Action = ""
	ActionCopyAddress    Action = "copy-address"
	ActionStopGame       Action = "stop-game"
	ActionRunPreset      Action = "run-preset"
	ActionEmergencyStop  Action = "emergency-stop"
	ActionDetectRunning  Action = "detect-running"
	ActionToggleRecon    Action = "toggle-reconnect"
	ActionOpenConfig     Action = "open-config"
	ActionOpenLog        Action = "open-log"
	ActionOpenDataDir    Action = "open-data-dir"
	ActionAbout          Action = "about"
	ActionQuit           Action = "quit"
)

// Item is one rendered menu entry. Separator items carry no other
// fields.
type Item struct {
	Title     string
	Tooltip   string
	Action    Action
	Arg       string
	Checked   bool
	Disabled  bool
	Separator bool
}

// RunningGame is the tray-visible state of one active helper.
type RunningGame struct {
	ID      string
	Name    string
	Session string
}

// State is everything the menu is rendered from. Building the menu
// from a snapshot keeps rendering free of service calls.
type State struct {
	Address       string
	Version       string
	Running       []RunningGame
	Presets       []string
	AutoReconnect bool
	DebugLogging  bool
}

func separator() Item { return Item{Separator: true} }

// BuildMenu renders the tray menu model from a state snapshot. It is
// pure: same state in, same items out.
func BuildMenu(st State) []Item {
	items := []Item{
		{Title: "Address: " + st.Address, Tooltip: "Copy API address", Action: ActionCopyAddress},
		separator(),
	}

	if len(st.Running) == 0 {
		items = append(items, Item{Title: "No games running", Disabled: true})
	} else {
		items = append(items, Item{
			Title:    fmt.Sprintf("Running (%d)", len(st.Running)),
			Disabled: true,
		})
		for _, g := range st.Running {
			title := g.Name
			if title == "" {
				title = g.ID
			}
			items = append(items, Item{
				Title:   fmt.Sprintf("Stop %s (%s)", title, g.Session),
				Tooltip: "Stop idling this game",
				Action:  ActionStopGame,
				Arg:     g.ID,
			})
		}
	}
	items = append(items, separator())

	for _, name := range st.Presets {
		items = append(items, Item{
			Title:   "Run preset: " + name,
			Tooltip: "Start every game in this preset",
			Action:  ActionRunPreset,
			Arg:     name,
		})
	}
	if len(st.Presets) > 0 {
		items = append(items, separator())
	}

	items = append(items,
		Item{Title: "Detect running games", Action: ActionDetectRunning},
		Item{Title: "Auto-reconnect", Action: ActionToggleRecon, Checked: st.AutoReconnect},
		Item{Title: "Emergency stop", Tooltip: "Stop every running helper", Action: ActionEmergencyStop},
		separator(),
		Item{Title: "Edit config", Action: ActionOpenConfig},
		Item{Title: "View log", Action: ActionOpenLog},
	)

	if st.DebugLogging {
		items = append(items, Item{Title: "Data (debug)", Action: ActionOpenDataDir})
	}

	items = append(items,
		separator(),
		Item{Title: "Version " + st.Version, Disabled: true},
		Item{Title: "About Sidle", Action: ActionAbout},
		separator(),
		Item{Title: "Quit", Tooltip: "Quit and stop all helpers", Action: ActionQuit},
	)

	return items
}
