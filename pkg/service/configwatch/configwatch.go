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

// Package configwatch reloads the config file when it changes on disk,
// so edits made outside the service take effect without a restart.
package configwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/config"
)

// debounceDelay coalesces the bursts of write events editors produce.
const debounceDelay = 500 * time.Millisecond

// Watch reloads cfg whenever its file is written. It blocks until ctx
// is cancelled. Reload failures are logged and the previous values are
// kept.
func Watch(ctx context.Context, cfg *config.Instance) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Debug().Err(err).Msg("configwatch: closing watcher")
		}
	}()

	// Watch the directory, not the file: editors replace files on
	// save, which drops a watch on the file itself.
	cfgPath := cfg.Path()
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		return fmt.Errorf("watching config dir: %w", err)
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	log.Debug().Str("path", cfgPath).Msg("configwatch: watching config file")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(cfgPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounce.Reset(debounceDelay)
		case <-debounce.C:
			if err := cfg.Load(); err != nil {
				log.Error().Err(err).Msg("configwatch: reloading config failed, keeping previous values")
				continue
			}
			log.Info().Msg("configwatch: config reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("configwatch: watcher error")
		}
	}
}
