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

// Package service composes the stores, the supervisor, the API server
// and LAN discovery into one running instance.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api"
	"github.com/sidle-app/sidle/pkg/api/methods"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/goals"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/presets"
	"github.com/sidle-app/sidle/pkg/scraper/storefront"
	"github.com/sidle-app/sidle/pkg/service/configwatch"
	"github.com/sidle-app/sidle/pkg/service/discovery"
	"github.com/sidle-app/sidle/pkg/service/ledger"
	"github.com/sidle-app/sidle/pkg/service/registry"
	"github.com/sidle-app/sidle/pkg/service/supervisor"
	"github.com/sidle-app/sidle/pkg/shared/httpclient"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Instance is a running service.
type Instance struct {
	Supervisor *supervisor.Supervisor
	Env        methods.Env
	discovery  *discovery.Service
	ledger     *ledger.Ledger
	cancel     context.CancelFunc
	done       chan struct{}
	pidPath    string
}

// Start brings the whole service up and returns once the background
// goroutines are running. Call Stop to shut everything down.
func Start(cfg *config.Instance) (*Instance, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	dataDir := helpers.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	fs := afero.NewOsFs()

	ldg := ledger.New(fs, filepath.Join(dataDir, config.StatsFile))
	if err := ldg.Reload(); err != nil {
		return nil, fmt.Errorf("loading statistics: %w", err)
	}

	goalStore := goals.NewStore(fs, filepath.Join(dataDir, config.GoalsFile))
	if err := goalStore.Load(); err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	presetStore := presets.NewStore(fs, filepath.Join(dataDir, config.PresetsDir))

	reg := registry.New(func() string {
		if p := cfg.IdlerPath(); p != "" {
			return p
		}
		return config.HelperBinName
	}, nil)

	client := httpclient.New(httpclient.DefaultTimeout)
	scraper := storefront.New(client)

	ns := make(chan models.Notification, 100)
	sup := supervisor.New(cfg, reg, ldg, goalStore, presetStore,
		&metaResolver{scraper: scraper}, nil, ns)

	env := methods.Env{
		Config:     cfg,
		Supervisor: sup,
		Presets:    presetStore,
		Goals:      goalStore,
		Scraper:    scraper,
		HTTPClient: client,
	}

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.DetectOnStart() {
		if adopted := sup.DetectRunning(ctx); len(adopted) > 0 {
			log.Info().Strs("games", adopted).Msg("service: adopted running helpers on startup")
		}
	}

	disc := discovery.New(cfg)
	if err := disc.Start(); err != nil {
		log.Error().Err(err).Msg("service: mDNS discovery failed to start, continuing without it")
	}

	inst := &Instance{
		Supervisor: sup,
		Env:        env,
		discovery:  disc,
		ledger:     ldg,
		cancel:     cancel,
		done:       make(chan struct{}),
		pidPath:    filepath.Join(dataDir, config.PidFile),
	}
	inst.writePidFile()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sup.Run(ctx) })
	g.Go(func() error { return api.Start(ctx, env, ns) })
	g.Go(func() error { return configwatch.Watch(ctx, cfg) })

	go func() {
		defer close(inst.done)
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("service: background group exited")
		}
	}()

	log.Info().Int("apiPort", cfg.APIPort()).Msg("service: started")
	return inst, nil
}

// Stop cancels the background goroutines, waits for them and flushes
// state to disk.
func (i *Instance) Stop() {
	log.Info().Msg("service: stopping")

	i.cancel()
	<-i.done

	i.discovery.Stop()

	if err := i.ledger.Persist(); err != nil {
		log.Error().Err(err).Msg("service: final statistics persist failed")
	}
	i.removePidFile()
}

func (i *Instance) writePidFile() {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(i.pidPath, []byte(pid), 0o644); err != nil {
		log.Warn().Err(err).Msg("service: writing pid file")
	}
}

func (i *Instance) removePidFile() {
	if err := os.Remove(i.pidPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("service: removing pid file")
	}
}
