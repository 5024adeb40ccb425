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

// Package export renders the statistics ledger as CSV or JSON for
// download.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sidle-app/sidle/pkg/helpers"
	"github.com/sidle-app/sidle/pkg/service/ledger"
)

// ErrUnknownFormat is returned for formats other than csv and json.
var ErrUnknownFormat = errors.New("unknown export format")

// Row is one exported statistics record.
type Row struct {
	GameID       string  `csv:"game_id" json:"game_id"`
	Name         string  `csv:"name" json:"name"`
	TotalSeconds float64 `csv:"total_seconds" json:"total_seconds"`
	TotalTime    string  `csv:"total_time" json:"total_time"`
	Running      bool    `csv:"running" json:"running"`
}

// Statistics renders entries in the requested format and returns the
// payload with its content type.
func Statistics(entries []ledger.Entry, format string, now time.Time) ([]byte, string, error) {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		name := e.Meta.DisplayName
		if name == "" {
			name = e.GameID
		}
		rows = append(rows, Row{
			GameID:       e.GameID,
			Name:         name,
			TotalSeconds: e.Accumulated.Seconds(),
			TotalTime:    helpers.FormatDuration(e.Accumulated),
			Running:      e.Active,
		})
	}

	switch format {
	case "csv":
		data, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal csv: %w", err)
		}
		return data, "text/csv", nil
	case "json":
		data, err := json.MarshalIndent(exportDoc{ExportedAt: now, Games: rows}, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal json: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type exportDoc struct {
	ExportedAt time.Time `json:"exported_at"`
	Games      []Row     `json:"games"`
}
