package app

import (
	"log"
	"sync"

	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// Collector owns one DroneState and serializes every write to it. Readers
// get immutable snapshots.
type Collector struct {
	mu    sync.RWMutex
	state *dronestate.DroneState

	haveFlight  bool
	haveBattery bool
}

// NewCollector wraps state. The caller must not touch state afterwards.
func NewCollector(state *dronestate.DroneState) *Collector {
	return &Collector{state: state}
}

// Flight stores a flight controller sample. While on the ground with a
// valid fix the position is kept as the last known ground location.
func (c *Collector) Flight(s telemetry.Sample[telemetry.FlightController]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SetFlightController(s.Value, s.Timestamp)
	c.haveFlight = true

	loc, ok := c.state.Location()
	if ok && !c.state.IsFlying() {
		c.state.SetLastKnownGroundLocation(&loc)
	}
	if ok && !c.state.Located() {
		c.state.SetLocated(true)
		log.Printf("collector: drone %s located at %.6f,%.6f", c.state.ID(), loc.Latitude, loc.Longitude)
	}
	c.markInitialized()
}

// Battery stores a battery sample.
func (c *Collector) Battery(s telemetry.Sample[telemetry.Battery]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SetBattery(s.Value, s.Timestamp)
	c.haveBattery = true
	c.markInitialized()
}

// Vision stores an obstacle sensing sample.
func (c *Collector) Vision(s telemetry.Sample[telemetry.Vision]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetVision(s.Value, s.Timestamp)
}

// Link stores a link quality sample.
func (c *Collector) Link(s telemetry.Sample[int]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetLinkQuality(s.Value, s.Timestamp)
}

// Identity replaces the identity fields.
func (c *Collector) Identity(id telemetry.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetIdentity(id)
}

// Ground forces the last known ground location, e.g. from an operator
// marking the launch point by hand.
func (c *Collector) Ground(l telemetry.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetLastKnownGroundLocation(&l)
}

// Frame stores one tick of every category.
func (c *Collector) Frame(f telemetry.Frame) {
	c.Flight(f.Flight)
	c.Battery(f.Battery)
	c.Vision(f.Vision)
	c.Link(f.LinkQuality)
}

// Snapshot returns the derived state. ok is false until the first flight
// sample has arrived.
func (c *Collector) Snapshot() (dronestate.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Snapshot(), c.haveFlight
}

// Status reports the lifecycle flags.
func (c *Collector) Status() (initialized, located bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Initialized(), c.state.Located()
}

// must hold c.mu
func (c *Collector) markInitialized() {
	if c.haveFlight && c.haveBattery && !c.state.Initialized() {
		c.state.SetInitialized(true)
		log.Printf("collector: drone %s initialized", c.state.ID())
	}
}
