package telemetry

import (
	"github.com/relabs-tech/dronestate/internal/orientation"
)

// Location is a 2-D fix in decimal degrees.
type Location struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// Location3D is an aircraft fix. Latitude and Longitude may be NaN
// before the receiver has a lock.
type Location3D struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
	Altitude  float64 `json:"alt" yaml:"alt"` // metres
}

// Location2D drops the altitude.
func (l Location3D) Location2D() Location {
	return Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Vector3 is a velocity in m/s. X points north, Y east, Z down.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// FlightController is the flight block reported per telemetry tick.
type FlightController struct {
	Flying           bool                 `json:"flying" yaml:"flying"`
	AircraftLocation *Location3D          `json:"aircraft_location,omitempty" yaml:"aircraft_location,omitempty"`
	HomeLocationSet  bool                 `json:"home_location_set" yaml:"home_location_set"`
	HomeLocation     *Location            `json:"home_location,omitempty" yaml:"home_location,omitempty"`
	SatelliteCount   int                  `json:"satellite_count" yaml:"satellite_count"`
	Velocity         Vector3              `json:"velocity" yaml:"velocity"`
	Attitude         orientation.Attitude `json:"attitude" yaml:"attitude"`
}

// Battery is the battery block.
type Battery struct {
	ChargeRemainingPercent int `json:"charge_remaining_percent" yaml:"charge_remaining_percent"` // 0-100
}

// ObstacleSector is one angular slice of the obstacle sensing system.
type ObstacleSector struct {
	DistanceMeters float64 `json:"distance_m" yaml:"distance_m"`
}

// Vision is the obstacle sensing block.
type Vision struct {
	Sectors []ObstacleSector `json:"sectors" yaml:"sectors"`
}

// Identity carries the static device fields supplied by the vendor link.
type Identity struct {
	SerialNumber           string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	Name                   string `json:"name,omitempty" yaml:"name,omitempty"`
	Model                  string `json:"model,omitempty" yaml:"model,omitempty"`
	FirmwarePackageVersion string `json:"firmware_package_version,omitempty" yaml:"firmware_package_version,omitempty"`
}
