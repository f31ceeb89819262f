// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"time"

	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// mockHome is where the mock aircraft takes off.
var mockHome = telemetry.Location{Latitude: 47.3977, Longitude: 8.5456}

// RunMockConsole runs the mock flight in-process, without a broker.
func RunMockConsole() error {
	start := time.Now()
	src := telemetry.NewMockSource(mockHome, start)
	collector := NewCollector(dronestate.New(dronestate.NewID()))
	collector.Identity(mockIdentity())

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for now := range ticker.C {
		collector.Frame(src.Next(now))
		printState(collector, now)
	}
	return nil
}

func mockIdentity() telemetry.Identity {
	return telemetry.Identity{
		SerialNumber:           "MOCK-0001",
		Name:                   "mock",
		Model:                  "Simulated Quad",
		FirmwarePackageVersion: "0.0.0",
	}
}
