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

// Package storefront fetches game name and header image from the Steam
// storefront appdetails API. Results are cached by the caller; a game
// is looked up at most once in normal operation.
package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/shared/httpclient"
)

const appDetailsURL = "https://store.steampowered.com/api/appdetails?appids=%s"

// Info is descriptive metadata for one game.
type Info struct {
	ID    string
	Name  string
	Image string
}

// Scraper fetches game metadata from the storefront.
type Scraper struct {
	client  *http.Client
	baseURL string
}

// New creates a scraper using client for outgoing requests.
func New(client *http.Client) *Scraper {
	return &Scraper{client: client, baseURL: appDetailsURL}
}

// NewWithBaseURL is used by tests to point the scraper at a stub
// server. baseURL must contain one %s verb for the app id.
func NewWithBaseURL(client *http.Client, baseURL string) *Scraper {
	return &Scraper{client: client, baseURL: baseURL}
}

type appDetailsEntry struct {
	Data    appDetailsData `json:"data"`
	Success bool           `json:"success"`
}

type appDetailsData struct {
	Name        string `json:"name"`
	HeaderImage string `json:"header_image"`
}

// Fetch looks up name and header image for gameID. An unknown or
// delisted app id returns an Info with empty fields and no error, so
// callers can cache the miss.
func (s *Scraper) Fetch(ctx context.Context, gameID string) (Info, error) {
	url := fmt.Sprintf(s.baseURL, gameID)

	body, err := httpclient.GetJSON(ctx, s.client, url)
	if err != nil {
		return Info{}, fmt.Errorf("appdetails request failed: %w", err)
	}

	var payload map[string]appDetailsEntry
	if err := json.Unmarshal(body, &payload); err != nil {
		return Info{}, fmt.Errorf("failed to parse appdetails response: %w", err)
	}

	entry, ok := payload[gameID]
	if !ok || !entry.Success {
		log.Debug().Str("gameID", gameID).Msg("storefront: no appdetails for game")
		return Info{ID: gameID}, nil
	}

	return Info{
		ID:    gameID,
		Name:  entry.Data.Name,
		Image: entry.Data.HeaderImage,
	}, nil
}
