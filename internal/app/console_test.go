package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

func TestFormatSnapshot(t *testing.T) {
	c := NewCollector(dronestate.New("alpha"))
	c.Flight(telemetry.NewSample(groundFlight(), t0))

	snap, ok := c.Snapshot()
	assert.True(t, ok)

	out := formatSnapshot(snap, false, true, t0.Add(3*time.Second))
	assert.Contains(t, out, "[STATE] alpha flying=false initialized=false located=true updated 3 seconds ago")
	assert.Contains(t, out, "loc=47.397700,8.545600")
	assert.Contains(t, out, "home=47.397700,8.545600")
	assert.Contains(t, out, "battery=-- obstacle=-- sats=12 signal=--")
}

func TestFormatSnapshotValues(t *testing.T) {
	c := NewCollector(dronestate.New("alpha"))
	c.Flight(telemetry.NewSample(airborneAt(47.4, 8.55, 30), t0))
	c.Battery(telemetry.NewSample(telemetry.Battery{ChargeRemainingPercent: 55}, t0))
	c.Vision(telemetry.NewSample(telemetry.Vision{Sectors: []telemetry.ObstacleSector{{DistanceMeters: 7.5}}}, t0))
	c.Link(telemetry.NewSample(81, t0))

	snap, _ := c.Snapshot()
	out := formatSnapshot(snap, true, true, t0)
	assert.Contains(t, out, "flying=true")
	assert.Contains(t, out, "ground=--")
	assert.Contains(t, out, "alt=30.0m")
	assert.Contains(t, out, "battery=55% obstacle=7.5m sats=12 signal=81")
}
