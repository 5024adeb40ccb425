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

// Package methods implements the REST handlers of the local API.
package methods

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/api/models"
	"github.com/sidle-app/sidle/pkg/api/validation"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/goals"
	"github.com/sidle-app/sidle/pkg/presets"
	"github.com/sidle-app/sidle/pkg/scraper/storefront"
	"github.com/sidle-app/sidle/pkg/service/registry"
	"github.com/sidle-app/sidle/pkg/service/supervisor"
)

// Env carries the service dependencies handlers operate on.
type Env struct {
	Config     *config.Instance
	Supervisor *supervisor.Supervisor
	Presets    *presets.Store
	Goals      *goals.Store
	Scraper    *storefront.Scraper
	HTTPClient *http.Client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("api: encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Status: "error", Message: msg})
}

// writeDomainError maps known service errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, registry.ErrNotRunning):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, presets.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, presets.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads and validates a request body, replying with 400 itself
// on failure. The bool result reports whether the handler may proceed.
func decode[T any](w http.ResponseWriter, r *http.Request, dest *T) bool {
	if err := validation.DecodeAndValidate(r.Body, dest); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
