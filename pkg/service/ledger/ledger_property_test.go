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

package ledger

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// The total for a game must never decrease, no matter how open, close
// and read events interleave on a forward-moving clock.
func TestTotalNeverDecreases(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		l := newTestLedger()
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		prevTotal := time.Duration(0)

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for range steps {
			now = now.Add(time.Duration(rapid.Int64Range(0, 3600).Draw(t, "advance")) * time.Second)

			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				// The registry rejects double-starts, so a session is
				// only ever opened while closed.
				if _, active := l.SessionElapsed("g", now); !active {
					l.OpenSession("g", now, Meta{})
				}
			case 1:
				l.CloseSession("g", now)
			case 2:
				// read only
			}

			total := l.CurrentTotal("g", now)
			if total < prevTotal {
				t.Fatalf("total decreased: %v -> %v", prevTotal, total)
			}
			prevTotal = total
		}
	})
}
