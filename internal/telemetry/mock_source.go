// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math"
	"time"

	"github.com/relabs-tech/dronestate/internal/orientation"
)

// Mock flight profile, repeated every mockCycle.
const (
	mockLockAfter   = 2 * time.Second  // no satellites, zeroed fix before this
	mockTakeoffAt   = 5 * time.Second  // climb starts
	mockOrbitAt     = 15 * time.Second // orbit starts
	mockDescendAt   = 45 * time.Second // descent starts
	mockLandedAt    = 55 * time.Second // on the ground again
	mockCycle       = 60 * time.Second
	mockClimbRate   = 2.0  // m/s
	mockOrbitRadius = 30.0 // m
	mockOrbitSpeed  = 5.0  // m/s
	mockSatellites  = 12

	metresPerDegree = 111_320.0
)

// Frame is one tick of every telemetry category.
type Frame struct {
	Flight      Sample[FlightController]
	Battery     Sample[Battery]
	Vision      Sample[Vision]
	LinkQuality Sample[int]
}

// MockSource generates a smooth takeoff, orbit and landing around a
// home position.
type MockSource struct {
	home  Location
	start time.Time
}

// NewMockSource creates a mock telemetry source whose cycle starts at
// start.
func NewMockSource(home Location, start time.Time) *MockSource {
	return &MockSource{home: home, start: start}
}

// Next returns the frame for wall time now.
func (m *MockSource) Next(now time.Time) Frame {
	elapsed := now.Sub(m.start)
	t := elapsed % mockCycle

	fc := FlightController{
		Attitude: orientation.Attitude{},
	}

	// Before lock the receiver reports a zeroed fix with no satellites.
	if t < mockLockAfter {
		fc.AircraftLocation = &Location3D{}
	} else {
		fc.SatelliteCount = mockSatellites
		fc.HomeLocationSet = true
		home := m.home
		fc.HomeLocation = &home
		fc.AircraftLocation = &Location3D{Latitude: m.home.Latitude, Longitude: m.home.Longitude}
	}

	switch {
	case t >= mockTakeoffAt && t < mockOrbitAt:
		climb := (t - mockTakeoffAt).Seconds()
		fc.Flying = true
		fc.AircraftLocation.Altitude = climb * mockClimbRate
		fc.Velocity.Z = -mockClimbRate
		fc.Attitude.Pitch = -2

	case t >= mockOrbitAt && t < mockDescendAt:
		fc.Flying = true
		fc.AircraftLocation.Altitude = (mockOrbitAt - mockTakeoffAt).Seconds() * mockClimbRate

		omega := mockOrbitSpeed / mockOrbitRadius
		theta := omega * (t - mockOrbitAt).Seconds()
		north := mockOrbitRadius * math.Cos(theta)
		east := mockOrbitRadius * math.Sin(theta)
		fc.AircraftLocation.Latitude += north / metresPerDegree
		fc.AircraftLocation.Longitude += east / (metresPerDegree * math.Cos(orientation.DegreesToRadians(m.home.Latitude)))

		// Tangential velocity, counter-clockwise seen from above.
		fc.Velocity.X = -mockOrbitSpeed * math.Sin(theta)
		fc.Velocity.Y = mockOrbitSpeed * math.Cos(theta)
		fc.Attitude.Roll = 8 * math.Sin(theta)
		fc.Attitude.Pitch = -5
		fc.Attitude.Yaw = math.Mod(orientation.RadiansToDegrees(math.Atan2(fc.Velocity.Y, fc.Velocity.X))+360, 360)

	case t >= mockDescendAt && t < mockLandedAt:
		top := (mockOrbitAt - mockTakeoffAt).Seconds() * mockClimbRate
		fc.Flying = true
		fc.AircraftLocation.Altitude = math.Max(0, top-(t-mockDescendAt).Seconds()*mockClimbRate)
		fc.Velocity.Z = mockClimbRate
	}

	charge := 100 - int(elapsed.Seconds()/6)
	if charge < 0 {
		charge = 0
	}

	phase := elapsed.Seconds()
	vision := Vision{Sectors: []ObstacleSector{
		{DistanceMeters: 12 + 4*math.Sin(phase*0.3)},
		{DistanceMeters: 9 + 3*math.Cos(phase*0.2)},
		{DistanceMeters: 15 + 5*math.Sin(phase*0.1)},
		{DistanceMeters: 20},
	}}

	link := 100 - int(math.Round(10*math.Abs(math.Sin(phase*0.05))))

	return Frame{
		Flight:      NewSample(fc, now),
		Battery:     NewSample(Battery{ChargeRemainingPercent: charge}, now),
		Vision:      NewSample(vision, now),
		LinkQuality: NewSample(link, now),
	}
}
