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

package methods

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/export"
)

// HandleExport streams the statistics ledger as a CSV or JSON
// attachment. Format comes from the "format" query parameter and
// defaults to csv.
func HandleExport(env Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}

		data, contentType, err := env.Supervisor.ExportStatistics(format)
		if err != nil {
			if errors.Is(err, export.ErrUnknownFormat) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		filename := fmt.Sprintf("sidle-stats-%s.%s", time.Now().Format("2006-01-02"), format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Error().Err(err).Msg("api: writing export body")
		}
	}
}
