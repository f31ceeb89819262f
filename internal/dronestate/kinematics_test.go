package dronestate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/dronestate/internal/orientation"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

func stateWithVelocity(v telemetry.Vector3) *DroneState {
	fc := lockedFlight()
	fc.Velocity = v
	s := New("drone-1")
	s.SetFlightController(fc, t0)
	return s
}

func TestKinematicsWithoutFlightSample(t *testing.T) {
	s := New("drone-1")
	assert.Zero(t, s.Course())
	assert.Zero(t, s.HorizontalSpeed())
	assert.Zero(t, s.VerticalSpeed())
	assert.Zero(t, s.Altitude())
	assert.Equal(t, orientation.Orientation3{}, s.MissionOrientation())
}

func TestCourse(t *testing.T) {
	cases := []struct {
		name string
		v    telemetry.Vector3
		want float64
	}{
		{"north", telemetry.Vector3{X: 1}, 0},
		{"east", telemetry.Vector3{Y: 1}, math.Pi / 2},
		{"south", telemetry.Vector3{X: -1}, math.Pi},
		{"west", telemetry.Vector3{Y: -1}, -math.Pi / 2},
		{"north-east", telemetry.Vector3{X: 2, Y: 2}, math.Pi / 4},
		{"hovering", telemetry.Vector3{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, stateWithVelocity(tc.v).Course(), 1e-12)
		})
	}
}

func TestHorizontalSpeed(t *testing.T) {
	for _, vx := range []float64{-12.5, -3, 0, 0.25, 3, 40} {
		for _, vy := range []float64{-7, -4, 0, 1e-3, 4, 18.75} {
			s := stateWithVelocity(telemetry.Vector3{X: vx, Y: vy, Z: 5})
			assert.InDelta(t, math.Sqrt(vx*vx+vy*vy), s.HorizontalSpeed(), 1e-9, "vx=%v vy=%v", vx, vy)
		}
	}
	assert.Equal(t, 5.0, stateWithVelocity(telemetry.Vector3{X: 3, Y: 4}).HorizontalSpeed())
}

func TestVerticalSpeed(t *testing.T) {
	for _, vz := range []float64{-10, -1.5, -1e-9, 1e-9, 2, 7.25} {
		assert.Equal(t, -vz, stateWithVelocity(telemetry.Vector3{Z: vz}).VerticalSpeed(), "vz=%v", vz)
	}

	got := stateWithVelocity(telemetry.Vector3{Z: 0}).VerticalSpeed()
	assert.Zero(t, got)
	assert.False(t, math.Signbit(got), "vertical speed must not be negative zero")

	got = stateWithVelocity(telemetry.Vector3{Z: math.Copysign(0, -1)}).VerticalSpeed()
	assert.False(t, math.Signbit(got), "negative zero input must map to positive zero")
}

func TestAltitude(t *testing.T) {
	s := New("drone-1")
	fc := lockedFlight()
	s.SetFlightController(fc, t0)
	assert.Equal(t, 12.0, s.Altitude())

	// Altitude does not depend on the fix being valid.
	fc.SatelliteCount = 0
	s.SetFlightController(fc, t0)
	assert.Equal(t, 12.0, s.Altitude())

	fc.AircraftLocation = nil
	s.SetFlightController(fc, t0)
	assert.Zero(t, s.Altitude())
}

func TestMissionOrientation(t *testing.T) {
	s := New("drone-1")
	fc := lockedFlight()
	fc.Attitude = orientation.Attitude{Pitch: 90, Roll: 0, Yaw: 180}
	s.SetFlightController(fc, t0)

	want := orientation.Orientation3{X: math.Pi / 2, Y: 0, Z: math.Pi}
	if diff := cmp.Diff(want, s.MissionOrientation(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("MissionOrientation() mismatch (-want +got):\n%s", diff)
	}

	fc.Attitude = orientation.Attitude{Pitch: -10, Roll: 45, Yaw: -90}
	s.SetFlightController(fc, t0)
	want = orientation.Orientation3{X: -math.Pi / 18, Y: math.Pi / 4, Z: -math.Pi / 2}
	if diff := cmp.Diff(want, s.MissionOrientation(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("MissionOrientation() mismatch (-want +got):\n%s", diff)
	}
}
