package nmeafc

import (
	nmea "github.com/adrianmo/go-nmea"
)

// Fix is the receiver state merged from the most recent RMC and GGA
// sentences.
type Fix struct {
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	Altitude   float64 `json:"alt"`         // metres above mean sea level
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground, 0-360
	Validity   string  `json:"validity"`    // RMC status: "A" valid, "V" void
	Quality    string  `json:"quality"`     // GGA fix quality, "0" invalid
	Satellites int     `json:"satellites"`
}

// Locked reports whether the last GGA carried a usable position.
func (f Fix) Locked() bool {
	return f.Quality != "" && f.Quality != nmea.Invalid && f.Satellites > 0
}
