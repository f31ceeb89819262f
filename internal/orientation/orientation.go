// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Attitude is the vendor-reported aircraft attitude, in degrees.
type Attitude struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Roll  float64 `json:"roll" yaml:"roll"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
}

// Orientation3 is the canonical mission-space orientation, in radians.
// Axis order is X=pitch, Y=roll, Z=yaw.
type Orientation3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Mission converts the attitude to a mission orientation:
//
//	x = rad(pitch)
//	y = rad(roll)
//	z = rad(yaw)
func (a Attitude) Mission() Orientation3 {
	return Orientation3{
		X: DegreesToRadians(a.Pitch),
		Y: DegreesToRadians(a.Roll),
		Z: DegreesToRadians(a.Yaw),
	}
}

// Degrees converts the orientation back to a vendor attitude.
func (o Orientation3) Degrees() Attitude {
	return Attitude{
		Pitch: RadiansToDegrees(o.X),
		Roll:  RadiansToDegrees(o.Y),
		Yaw:   RadiansToDegrees(o.Z),
	}
}
