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

// Package discovery advertises the local API over mDNS so companion
// apps on the LAN can find the service without manual configuration.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"
	"github.com/sidle-app/sidle/pkg/config"
	"github.com/sidle-app/sidle/pkg/helpers/syncutil"
)

// ServiceType is the DNS-SD service type advertised on the LAN.
const ServiceType = "_sidle._tcp"

const (
	retryInterval    = 30 * time.Second
	maxRetryDuration = 5 * time.Minute
)

// virtualInterfacePrefixes lists interface name prefixes excluded from
// mDNS registration.
var virtualInterfacePrefixes = []string{
	"docker", "br-", "veth", "virbr", "lxc", "lxd",
	"cni", "flannel", "cali", "tunl", "wg",
}

func getPreferredInterfaces() ([]net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}
	return filterInterfaces(all), nil
}

// filterInterfaces keeps interfaces that are up, non-loopback,
// multicast-capable and not virtual.
func filterInterfaces(ifaces []net.Interface) []net.Interface {
	var preferred []net.Interface
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagMulticast == 0 {
			continue
		}
		if isVirtualInterface(iface.Name) {
			continue
		}
		preferred = append(preferred, iface)
	}
	return preferred
}

func isVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Service manages mDNS advertising of the API endpoint.
type Service struct {
	server       *zeroconf.Server
	cfg          *config.Instance
	cancelFunc   context.CancelFunc
	instanceName string
	stopped      bool
	mu           syncutil.Mutex
}

// New creates a discovery service.
func New(cfg *config.Instance) *Service {
	return &Service{cfg: cfg}
}

// Start begins mDNS advertising. If registration fails because the
// network is not ready yet, a background loop keeps retrying for a
// bounded time. Only permanent failures return an error.
func (s *Service) Start() error {
	if !s.cfg.AllowAnnounce() {
		log.Info().Msg("discovery: mDNS announce disabled by configuration")
		return nil
	}

	s.instanceName = s.resolveInstanceName()

	if s.tryRegister() {
		return nil
	}

	log.Info().
		Dur("retryInterval", retryInterval).
		Dur("maxDuration", maxRetryDuration).
		Msg("discovery: mDNS registration failed, retrying in background")

	ctx, cancel := context.WithTimeout(context.Background(), maxRetryDuration)
	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	go s.retryLoop(ctx)
	return nil
}

func (s *Service) tryRegister() bool {
	port := s.cfg.APIPort()
	txtRecords := []string{
		"id=" + s.cfg.DeviceID(),
		"version=" + config.AppVersion,
	}

	ifaces, err := getPreferredInterfaces()
	if err != nil {
		log.Debug().Err(err).Msg("discovery: listing network interfaces")
		return false
	}
	if len(ifaces) == 0 {
		log.Debug().Msg("discovery: no suitable network interfaces for mDNS")
		return false
	}

	server, err := zeroconf.Register(
		s.instanceName,
		ServiceType,
		"local.",
		port,
		txtRecords,
		ifaces,
	)
	if err != nil {
		log.Debug().Err(err).Msg("discovery: mDNS registration attempt failed")
		return false
	}

	s.mu.Lock()
	// Stop may have raced with registration.
	if s.stopped {
		s.mu.Unlock()
		server.Shutdown()
		return false
	}
	s.server = server
	s.mu.Unlock()

	log.Info().
		Str("instance", s.instanceName).
		Int("port", port).
		Str("type", ServiceType).
		Msg("discovery: mDNS advertising started")
	return true
}

func (s *Service) retryLoop(ctx context.Context) {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.tryRegister() {
				log.Info().Msg("discovery: mDNS registration succeeded after retry")
				return
			}
		case <-ctx.Done():
			log.Warn().Msg("discovery: mDNS registration retries exhausted")
			return
		}
	}
}

// Stop shuts down advertising, sending mDNS goodbye packets.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	if s.server != nil {
		log.Debug().Msg("discovery: stopping mDNS advertising")
		s.server.Shutdown()
		s.server = nil
	}
}

// resolveInstanceName picks the advertised name: hostname, or a
// device-id fallback when the hostname is unavailable.
func (s *Service) resolveInstanceName() string {
	hostname, err := os.Hostname()
	if err != nil {
		deviceID := s.cfg.DeviceID()
		if len(deviceID) >= 8 {
			return config.AppName + "-" + deviceID[:8]
		}
		return config.AppName
	}
	return hostname
}
