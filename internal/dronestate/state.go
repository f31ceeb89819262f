// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package dronestate holds the latest raw telemetry samples of one
// aircraft and derives validated, mission-space quantities from them.
//
// DroneState performs no I/O and holds no locks. It is meant to be written
// by a single telemetry collaborator and read by mission logic; callers
// that read and write from different goroutines supply their own lock.
package dronestate

import (
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// DroneState is the raw sample store for one aircraft.
type DroneState struct {
	id                     string
	serialNumber           string
	name                   string
	model                  string
	firmwarePackageVersion string

	flightController *telemetry.Sample[telemetry.FlightController]
	battery          *telemetry.Sample[telemetry.Battery]
	vision           *telemetry.Sample[telemetry.Vision]
	linkQuality      *telemetry.Sample[int]

	lastKnownGroundLocation *telemetry.Location

	initialized bool
	located     bool

	now func() time.Time
}

// Option configures a DroneState.
type Option func(*DroneState)

// WithClock replaces time.Now as the source of the current time used by
// Dated when no flight sample exists.
func WithClock(now func() time.Time) Option {
	return func(s *DroneState) {
		s.now = now
	}
}

// New creates an empty state for the aircraft identified by id.
// The id never changes afterwards.
func New(id string, opts ...Option) *DroneState {
	s := &DroneState{
		id:  id,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh random identifier for collaborators that have no
// stable device id to supply.
func NewID() string {
	return uuid.NewString()
}

// ---------- Telemetry writes ----------

// SetFlightController replaces the flight controller sample.
func (s *DroneState) SetFlightController(v telemetry.FlightController, at time.Time) {
	// The store owns its copy; producers may reuse their structs.
	if v.AircraftLocation != nil {
		loc := *v.AircraftLocation
		v.AircraftLocation = &loc
	}
	if v.HomeLocation != nil {
		home := *v.HomeLocation
		v.HomeLocation = &home
	}
	sample := telemetry.NewSample(v, at)
	s.flightController = &sample
}

// SetBattery replaces the battery sample.
func (s *DroneState) SetBattery(v telemetry.Battery, at time.Time) {
	sample := telemetry.NewSample(v, at)
	s.battery = &sample
}

// SetVision replaces the obstacle sensing sample.
func (s *DroneState) SetVision(v telemetry.Vision, at time.Time) {
	if v.Sectors != nil {
		v.Sectors = append([]telemetry.ObstacleSector(nil), v.Sectors...)
	}
	sample := telemetry.NewSample(v, at)
	s.vision = &sample
}

// SetLinkQuality replaces the link quality sample.
func (s *DroneState) SetLinkQuality(v int, at time.Time) {
	sample := telemetry.NewSample(v, at)
	s.linkQuality = &sample
}

// ---------- Collaborator-owned fields ----------

func (s *DroneState) SetSerialNumber(v string)           { s.serialNumber = v }
func (s *DroneState) SetName(v string)                   { s.name = v }
func (s *DroneState) SetModel(v string)                  { s.model = v }
func (s *DroneState) SetFirmwarePackageVersion(v string) { s.firmwarePackageVersion = v }

// SetIdentity replaces all identity meta fields at once. The id is not
// part of it.
func (s *DroneState) SetIdentity(v telemetry.Identity) {
	s.serialNumber = v.SerialNumber
	s.name = v.Name
	s.model = v.Model
	s.firmwarePackageVersion = v.FirmwarePackageVersion
}

// SetLastKnownGroundLocation records where the aircraft last stood on the
// ground. nil clears it.
func (s *DroneState) SetLastKnownGroundLocation(l *telemetry.Location) {
	if l == nil {
		s.lastKnownGroundLocation = nil
		return
	}
	loc := *l
	s.lastKnownGroundLocation = &loc
}

func (s *DroneState) SetInitialized(v bool) { s.initialized = v }
func (s *DroneState) SetLocated(v bool)     { s.located = v }

// ---------- Raw reads ----------

func (s *DroneState) ID() string                     { return s.id }
func (s *DroneState) SerialNumber() string           { return s.serialNumber }
func (s *DroneState) Name() string                   { return s.name }
func (s *DroneState) Model() string                  { return s.model }
func (s *DroneState) FirmwarePackageVersion() string { return s.firmwarePackageVersion }
func (s *DroneState) Initialized() bool              { return s.initialized }
func (s *DroneState) Located() bool                  { return s.located }

// Identity returns the identity meta fields.
func (s *DroneState) Identity() telemetry.Identity {
	return telemetry.Identity{
		SerialNumber:           s.serialNumber,
		Name:                   s.name,
		Model:                  s.model,
		FirmwarePackageVersion: s.firmwarePackageVersion,
	}
}

// FlightController returns the latest flight controller sample.
func (s *DroneState) FlightController() (telemetry.Sample[telemetry.FlightController], bool) {
	if s.flightController == nil {
		return telemetry.Sample[telemetry.FlightController]{}, false
	}
	return *s.flightController, true
}

// Battery returns the latest battery sample.
func (s *DroneState) Battery() (telemetry.Sample[telemetry.Battery], bool) {
	if s.battery == nil {
		return telemetry.Sample[telemetry.Battery]{}, false
	}
	return *s.battery, true
}

// Vision returns the latest obstacle sensing sample.
func (s *DroneState) Vision() (telemetry.Sample[telemetry.Vision], bool) {
	if s.vision == nil {
		return telemetry.Sample[telemetry.Vision]{}, false
	}
	return *s.vision, true
}

// LinkQuality returns the latest link quality sample.
func (s *DroneState) LinkQuality() (telemetry.Sample[int], bool) {
	if s.linkQuality == nil {
		return telemetry.Sample[int]{}, false
	}
	return *s.linkQuality, true
}
