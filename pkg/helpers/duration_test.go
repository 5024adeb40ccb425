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

package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expected string
		d        time.Duration
	}{
		{"00:00:00", 0},
		{"00:00:01", time.Second},
		{"00:01:05", 65 * time.Second},
		{"01:00:00", time.Hour},
		{"25:01:01", 25*time.Hour + time.Minute + time.Second},
		{"100:00:00", 100 * time.Hour},
		{"00:00:00", -time.Minute},
		{"00:00:00", 999 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.d))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:01:05", FormatSeconds(65))
	assert.Equal(t, "00:00:00", FormatSeconds(-5))
}
