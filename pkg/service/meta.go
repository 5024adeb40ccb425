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

package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/scraper/storefront"
	"github.com/sidle-app/sidle/pkg/service/ledger"
	"github.com/sidle-app/sidle/pkg/steam"
)

// metaResolver resolves game display metadata from the Steam
// storefront, falling back to the local Steam library when offline.
type metaResolver struct {
	scraper *storefront.Scraper
}

func (m *metaResolver) Fetch(ctx context.Context, gameID string) (ledger.Meta, error) {
	info, err := m.scraper.Fetch(ctx, gameID)
	if err == nil && info.Name != "" {
		return ledger.Meta{DisplayName: info.Name, ImageURL: info.Image}, nil
	}
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Msg("service: storefront lookup failed, trying local library")
	}

	steamDir, dirErr := steam.InstallDir()
	if dirErr != nil {
		return ledger.Meta{}, err
	}
	if name, ok := steam.FindInstalledName(steamDir, gameID); ok {
		return ledger.Meta{DisplayName: name}, nil
	}
	return ledger.Meta{}, err
}
