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

package discovery

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "_sidle._tcp", ServiceType)
}

func TestStopIdempotent(t *testing.T) {
	t.Parallel()

	svc := New(nil)

	// Stop should be safe to call repeatedly, started or not.
	svc.Stop()
	svc.Stop()
	svc.Stop()

	assert.Nil(t, svc.server)
}

func TestIsVirtualInterface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		virtual bool
	}{
		{"eth0", false},
		{"wlan0", false},
		{"docker0", true},
		{"br-3f2a1b", true},
		{"veth12ab", true},
		{"wg0", true},
		{"DOCKER0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.virtual, isVirtualInterface(tt.name))
		})
	}
}

func TestFilterInterfaces(t *testing.T) {
	t.Parallel()

	ifaces := []net.Interface{
		{Name: "eth0", Flags: net.FlagUp | net.FlagMulticast},
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback | net.FlagMulticast},
		{Name: "eth1", Flags: net.FlagMulticast}, // down
		{Name: "eth2", Flags: net.FlagUp},        // no multicast
		{Name: "docker0", Flags: net.FlagUp | net.FlagMulticast},
	}

	filtered := filterInterfaces(ifaces)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "eth0", filtered[0].Name)
}
