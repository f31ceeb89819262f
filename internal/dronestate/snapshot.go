package dronestate

import (
	"time"

	"github.com/relabs-tech/dronestate/internal/orientation"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// Snapshot is the derived state of one aircraft at a point in time,
// suitable for JSON, MQTT and the mission log. Nil fields carry no data.
type Snapshot struct {
	Time time.Time `json:"time"`

	ID                     string `json:"id"`
	SerialNumber           string `json:"serial_number,omitempty"`
	Name                   string `json:"name,omitempty"`
	Model                  string `json:"model,omitempty"`
	FirmwarePackageVersion string `json:"firmware_package_version,omitempty"`

	Flying                  bool                `json:"flying"`
	Location                *telemetry.Location `json:"location,omitempty"`
	HomeLocation            *telemetry.Location `json:"home_location,omitempty"`
	LastKnownGroundLocation *telemetry.Location `json:"last_known_ground_location,omitempty"`
	TakeoffLocation         *telemetry.Location `json:"takeoff_location,omitempty"`
	TakeoffAltitude         *float64            `json:"takeoff_altitude,omitempty"`

	Course             float64                  `json:"course"`           // rad
	HorizontalSpeed    float64                  `json:"horizontal_speed"` // m/s
	VerticalSpeed      float64                  `json:"vertical_speed"`   // m/s, up
	Altitude           float64                  `json:"altitude"`         // m
	MissionOrientation orientation.Orientation3 `json:"orientation"`      // rad

	BatteryPercent   *float64 `json:"battery_percent,omitempty"`   // 0-1
	ObstacleDistance *float64 `json:"obstacle_distance,omitempty"` // m
	GPSSatellites    *int     `json:"gps_satellites,omitempty"`
	SignalStrength   *float64 `json:"signal_strength,omitempty"`
}

// TakeSnapshot evaluates every query of a exactly once.
func TakeSnapshot(a Adapter, at time.Time) Snapshot {
	return Snapshot{
		Time: at,

		ID:                     a.ID(),
		SerialNumber:           a.SerialNumber(),
		Name:                   a.Name(),
		Model:                  a.Model(),
		FirmwarePackageVersion: a.FirmwarePackageVersion(),

		Flying:                  a.IsFlying(),
		Location:                optional(a.Location()),
		HomeLocation:            optional(a.HomeLocation()),
		LastKnownGroundLocation: optional(a.LastKnownGroundLocation()),
		TakeoffLocation:         optional(a.TakeoffLocation()),
		TakeoffAltitude:         optional(a.TakeoffAltitude()),

		Course:             a.Course(),
		HorizontalSpeed:    a.HorizontalSpeed(),
		VerticalSpeed:      a.VerticalSpeed(),
		Altitude:           a.Altitude(),
		MissionOrientation: a.MissionOrientation(),

		BatteryPercent:   optional(a.BatteryPercent()),
		ObstacleDistance: optional(a.ObstacleDistance()),
		GPSSatellites:    optional(a.GPSSatellites()),
		SignalStrength:   optional(a.SignalStrength()),
	}
}

// Snapshot snapshots s at its dated timestamp.
func (s *DroneState) Snapshot() Snapshot {
	dated := s.Dated()
	return TakeSnapshot(dated.Value, dated.Timestamp)
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}
