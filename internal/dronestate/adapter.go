package dronestate

import (
	"github.com/relabs-tech/dronestate/internal/orientation"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// Adapter is the drone state capability set consumed by mission logic.
// Each vendor integration provides one, usually by writing its raw
// telemetry into a DroneState.
type Adapter interface {
	ID() string
	SerialNumber() string
	Name() string
	Model() string
	FirmwarePackageVersion() string

	IsFlying() bool
	Location() (telemetry.Location, bool)
	HomeLocation() (telemetry.Location, bool)
	LastKnownGroundLocation() (telemetry.Location, bool)
	TakeoffLocation() (telemetry.Location, bool)
	TakeoffAltitude() (float64, bool)

	Course() float64
	HorizontalSpeed() float64
	VerticalSpeed() float64
	Altitude() float64
	MissionOrientation() orientation.Orientation3

	BatteryPercent() (float64, bool)
	ObstacleDistance() (float64, bool)
	GPSSatellites() (int, bool)
	SignalStrength() (float64, bool)
}

var _ Adapter = (*DroneState)(nil)

// Dated wraps the state with the flight sample's timestamp, or the current
// time when no flight sample has arrived yet.
func (s *DroneState) Dated() telemetry.Sample[Adapter] {
	if s.flightController != nil {
		return telemetry.NewSample[Adapter](s, s.flightController.Timestamp)
	}
	return telemetry.NewSample[Adapter](s, s.now())
}
