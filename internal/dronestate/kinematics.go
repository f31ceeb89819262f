package dronestate

import (
	"math"

	"github.com/relabs-tech/dronestate/internal/orientation"
)

// Course is the direction of horizontal travel in radians,
// atan2(vy, vx). 0 without a flight sample.
func (s *DroneState) Course() float64 {
	if s.flightController == nil {
		return 0
	}
	v := s.flightController.Value.Velocity
	return math.Atan2(v.Y, v.X)
}

// HorizontalSpeed is the ground speed in m/s. 0 without a flight sample.
func (s *DroneState) HorizontalSpeed() float64 {
	if s.flightController == nil {
		return 0
	}
	v := s.flightController.Value.Velocity
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// VerticalSpeed is the climb rate in m/s, positive up. The vendor axis
// points down.
func (s *DroneState) VerticalSpeed() float64 {
	if s.flightController == nil {
		return 0
	}
	vz := s.flightController.Value.Velocity.Z
	if vz == 0 {
		// avoid -0
		return 0
	}
	return -vz
}

// Altitude is the aircraft altitude in metres. 0 without a flight sample
// or aircraft location.
func (s *DroneState) Altitude() float64 {
	if s.flightController == nil {
		return 0
	}
	loc := s.flightController.Value.AircraftLocation
	if loc == nil {
		return 0
	}
	return loc.Altitude
}

// MissionOrientation is the attitude in radians, zero without a flight
// sample.
func (s *DroneState) MissionOrientation() orientation.Orientation3 {
	if s.flightController == nil {
		return orientation.Orientation3{}
	}
	return s.flightController.Value.Attitude.Mission()
}
