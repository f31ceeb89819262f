// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmeafc turns a plain NMEA 0183 GPS receiver into a flight
// controller telemetry source. RMC sentences supply position, ground speed
// and course; GGA sentences supply altitude, satellite count and fix
// quality. Home and flying are inferred from the altitude profile.
package nmeafc

import (
	"fmt"
	"math"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/dronestate/internal/orientation"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

const knotsToMetresPerSecond = 1852.0 / 3600.0

// Translator accumulates sentences from one receiver. It is not safe for
// concurrent use.
type Translator struct {
	flyingAltitude float64

	fix  Fix
	home *telemetry.Location3D

	climb     float64 // m/s, down positive
	lastAltAt time.Time
	haveAlt   bool
}

// NewTranslator returns a translator that reports flying once the fix
// altitude is more than flyingAltitude metres above home.
func NewTranslator(flyingAltitude float64) *Translator {
	return &Translator{flyingAltitude: flyingAltitude}
}

// Fix returns the merged receiver state.
func (t *Translator) Fix() Fix {
	return t.fix
}

// Home returns the home fix, set from the first locked GGA.
func (t *Translator) Home() (telemetry.Location3D, bool) {
	if t.home == nil {
		return telemetry.Location3D{}, false
	}
	return *t.home, true
}

// Feed parses one raw line. Lines that are not NMEA sentences and sentence
// types other than RMC and GGA yield ok == false and no error.
func (t *Translator) Feed(line string, at time.Time) (telemetry.Sample[telemetry.FlightController], bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return telemetry.Sample[telemetry.FlightController]{}, false, nil
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return telemetry.Sample[telemetry.FlightController]{}, false, fmt.Errorf("nmeafc: parse %q: %w", line, err)
	}

	sample, ok := t.Apply(sentence, at)
	return sample, ok, nil
}

// Apply folds a parsed sentence into the receiver state and returns the
// resulting flight block stamped with at.
func (t *Translator) Apply(sentence nmea.Sentence, at time.Time) (telemetry.Sample[telemetry.FlightController], bool) {
	switch m := sentence.(type) {
	case nmea.RMC:
		t.applyRMC(m)
	case nmea.GGA:
		t.applyGGA(m, at)
	default:
		return telemetry.Sample[telemetry.FlightController]{}, false
	}
	return telemetry.NewSample(t.flight(), at), true
}

// An invalid RMC is copied as-is. The receiver reports empty fields, and
// the state layer rejects the resulting zero fix.
func (t *Translator) applyRMC(m nmea.RMC) {
	t.fix.Validity = m.Validity
	t.fix.Latitude = m.Latitude
	t.fix.Longitude = m.Longitude
	t.fix.SpeedKnots = m.Speed
	t.fix.CourseDeg = m.Course
}

func (t *Translator) applyGGA(m nmea.GGA, at time.Time) {
	prevAlt := t.fix.Altitude

	t.fix.Latitude = m.Latitude
	t.fix.Longitude = m.Longitude
	t.fix.Altitude = m.Altitude
	t.fix.Quality = m.FixQuality
	t.fix.Satellites = int(m.NumSatellites)

	if !t.fix.Locked() {
		t.climb = 0
		t.haveAlt = false
		return
	}

	if t.haveAlt {
		if dt := at.Sub(t.lastAltAt).Seconds(); dt > 0 {
			t.climb = -(m.Altitude - prevAlt) / dt
		}
	}
	t.haveAlt = true
	t.lastAltAt = at

	if t.home == nil {
		t.home = &telemetry.Location3D{Latitude: m.Latitude, Longitude: m.Longitude, Altitude: m.Altitude}
	}
}

func (t *Translator) flight() telemetry.FlightController {
	speed := t.fix.SpeedKnots * knotsToMetresPerSecond
	course := orientation.DegreesToRadians(t.fix.CourseDeg)

	// yaw in (-180, 180]
	yaw := t.fix.CourseDeg
	if yaw > 180 {
		yaw -= 360
	}

	fc := telemetry.FlightController{
		AircraftLocation: &telemetry.Location3D{
			Latitude:  t.fix.Latitude,
			Longitude: t.fix.Longitude,
			Altitude:  t.fix.Altitude,
		},
		SatelliteCount: t.fix.Satellites,
		Velocity: telemetry.Vector3{
			X: speed * math.Cos(course),
			Y: speed * math.Sin(course),
			Z: t.climb,
		},
		Attitude: orientation.Attitude{Yaw: yaw},
	}

	if t.home != nil {
		home := t.home.Location2D()
		fc.HomeLocationSet = true
		fc.HomeLocation = &home
		fc.Flying = t.fix.Locked() && t.fix.Altitude-t.home.Altitude > t.flyingAltitude
	}
	return fc
}
