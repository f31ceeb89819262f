package dronestate

import (
	"math"
)

// BatteryPercent is the remaining charge as a fraction in [0,1].
func (s *DroneState) BatteryPercent() (float64, bool) {
	if s.battery == nil {
		return 0, false
	}
	return float64(s.battery.Value.ChargeRemainingPercent) / 100.0, true
}

// ObstacleDistance is the nearest obstacle across all sectors, in metres.
//
// Zero doubles as "nothing reported": the running minimum is seeded from
// the first sector and folded with min, and a result of exactly 0 (no
// sectors, or any 0 reading) yields no data.
func (s *DroneState) ObstacleDistance() (float64, bool) {
	if s.vision == nil {
		return 0, false
	}

	minDistance := 0.0
	for i, sector := range s.vision.Value.Sectors {
		if i == 0 {
			minDistance = sector.DistanceMeters
			continue
		}
		minDistance = math.Min(minDistance, sector.DistanceMeters)
	}

	if minDistance == 0 {
		return 0, false
	}
	return minDistance, true
}

// GPSSatellites is the satellite count of the latest flight sample.
func (s *DroneState) GPSSatellites() (int, bool) {
	if s.flightController == nil {
		return 0, false
	}
	return s.flightController.Value.SatelliteCount, true
}

// SignalStrength is the latest link quality.
func (s *DroneState) SignalStrength() (float64, bool) {
	if s.linkQuality == nil {
		return 0, false
	}
	return float64(s.linkQuality.Value), true
}
