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

// Sidle is a desktop helper that launches and supervises Steam idling
// helper processes, tracks playtime and goals, and exposes a local
// HTTP API plus a system tray.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/service"
	"github.com/sidle-app/sidle/pkg/ui/systray"
)

func main() {
	noTray := flag.Bool("no-tray", false, "run headless without the system tray")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		os.Exit(0)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if err := helpers.InitLogging(helpers.LogDir(), config.LogFile, writers); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	inst, err := service.Start(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		_, _ = fmt.Fprintf(os.Stderr, "Error starting service: %v\n", err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if *noTray {
		<-sigs
		inst.Stop()
		return
	}

	go func() {
		<-sigs
		systray.Quit()
	}()

	// The tray loop must own the main goroutine.
	systray.Run(cfg, inst, trayIcon, func() {
		inst.Stop()
		os.Exit(0)
	})
}
