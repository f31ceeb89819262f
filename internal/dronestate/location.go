package dronestate

import (
	"math"

	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// zeroFixEpsilon is the per-axis magnitude below which a fix is treated as
// the receiver's unset (0,0) default rather than a position near the origin.
const zeroFixEpsilon = 0.000001

// IsFlying reports the flight controller's flying flag, false without a
// flight sample.
func (s *DroneState) IsFlying() bool {
	return s.flightController != nil && s.flightController.Value.Flying
}

// Location returns the current aircraft position. A fix is rejected when
// home is not set, no satellites are locked, a coordinate is NaN, or both
// coordinates are zero.
func (s *DroneState) Location() (telemetry.Location, bool) {
	if s.flightController == nil {
		return telemetry.Location{}, false
	}

	fc := s.flightController.Value
	loc := fc.AircraftLocation
	if loc == nil || !fc.HomeLocationSet || fc.SatelliteCount == 0 || math.IsNaN(loc.Latitude) || math.IsNaN(loc.Longitude) {
		return telemetry.Location{}, false
	}

	if math.Abs(loc.Latitude) < zeroFixEpsilon && math.Abs(loc.Longitude) < zeroFixEpsilon {
		return telemetry.Location{}, false
	}

	return loc.Location2D(), true
}

// HomeLocation returns the home point when the flight controller reports
// it as set. The value is not filtered.
func (s *DroneState) HomeLocation() (telemetry.Location, bool) {
	if s.flightController == nil || !s.flightController.Value.HomeLocationSet {
		return telemetry.Location{}, false
	}

	home := s.flightController.Value.HomeLocation
	if home == nil {
		return telemetry.Location{}, false
	}
	return *home, true
}

// LastKnownGroundLocation returns the location the collaborator last
// recorded while the aircraft was on the ground.
func (s *DroneState) LastKnownGroundLocation() (telemetry.Location, bool) {
	if s.lastKnownGroundLocation == nil {
		return telemetry.Location{}, false
	}
	return *s.lastKnownGroundLocation, true
}

// TakeoffLocation estimates where the aircraft left the ground. While
// flying it prefers the recorded ground location, then home; otherwise it
// falls back to the current location.
func (s *DroneState) TakeoffLocation() (telemetry.Location, bool) {
	if s.IsFlying() {
		if loc, ok := s.LastKnownGroundLocation(); ok {
			return loc, true
		}

		if s.flightController.Value.HomeLocationSet {
			if home, ok := s.HomeLocation(); ok {
				return home, true
			}
		}
	}

	return s.Location()
}

// TakeoffAltitude is never available: the vendor takeoff altitude is
// barometric and unreliable.
func (s *DroneState) TakeoffAltitude() (float64, bool) {
	return 0, false
}
