// Package replay drives a drone state from a scripted telemetry sequence
// written in YAML. Scripts reproduce field incidents and exercise the
// location fallback chains without a vehicle.
//
// A script looks like:
//
//	drone_id: alpha
//	start: 2026-03-23T09:00:00Z
//	steps:
//	  - at: 0s
//	    flight:
//	      satellite_count: 12
//	      home_location_set: true
//	      home_location: {lat: 47.39, lon: 8.54}
//	      aircraft_location: {lat: 47.39, lon: 8.54, alt: 0}
//	  - at: 1s
//	    battery: {charge_remaining_percent: 97}
package replay

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// Script is a parsed replay file.
type Script struct {
	DroneID  string              `yaml:"drone_id"`
	Start    time.Time           `yaml:"start"`
	Identity *telemetry.Identity `yaml:"identity"`
	Steps    []Step              `yaml:"steps"`
}

// Step is one telemetry event. Exactly one payload field is set.
type Step struct {
	At time.Duration `yaml:"at"` // offset from Start

	Flight   *telemetry.FlightController `yaml:"flight"`
	Battery  *telemetry.Battery          `yaml:"battery"`
	Vision   *telemetry.Vision           `yaml:"vision"`
	Link     *int                        `yaml:"link"`
	Identity *telemetry.Identity         `yaml:"identity"`
	Ground   *telemetry.Location         `yaml:"ground"`
}

// Kind names the payload of the step.
func (s Step) Kind() string {
	switch {
	case s.Flight != nil:
		return "flight"
	case s.Battery != nil:
		return "battery"
	case s.Vision != nil:
		return "vision"
	case s.Link != nil:
		return "link"
	case s.Identity != nil:
		return "identity"
	case s.Ground != nil:
		return "ground"
	default:
		return ""
	}
}

func (s Step) payloads() int {
	n := 0
	for _, set := range []bool{s.Flight != nil, s.Battery != nil, s.Vision != nil, s.Link != nil, s.Identity != nil, s.Ground != nil} {
		if set {
			n++
		}
	}
	return n
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode replay script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay script: %w", err)
	}
	return Parse(data)
}

func (s *Script) validate() error {
	if s.DroneID == "" {
		return fmt.Errorf("replay script: drone_id is required")
	}
	var prev time.Duration
	for i, step := range s.Steps {
		if n := step.payloads(); n != 1 {
			return fmt.Errorf("replay step %d: want exactly one payload, got %d", i, n)
		}
		if step.At < prev {
			return fmt.Errorf("replay step %d: at %v is before previous step at %v", i, step.At, prev)
		}
		prev = step.At
	}
	return nil
}

// Sink receives replayed telemetry.
type Sink interface {
	Flight(telemetry.Sample[telemetry.FlightController])
	Battery(telemetry.Sample[telemetry.Battery])
	Vision(telemetry.Sample[telemetry.Vision])
	Link(telemetry.Sample[int])
	Identity(telemetry.Identity)
	Ground(telemetry.Location)
}

// Run feeds every step into sink in order. after, when non-nil, is called
// once each step has been applied.
func (s *Script) Run(sink Sink, after func(i int, step Step)) {
	if s.Identity != nil {
		sink.Identity(*s.Identity)
	}

	for i, step := range s.Steps {
		at := s.Start.Add(step.At)

		switch {
		case step.Flight != nil:
			sink.Flight(telemetry.NewSample(*step.Flight, at))
		case step.Battery != nil:
			sink.Battery(telemetry.NewSample(*step.Battery, at))
		case step.Vision != nil:
			sink.Vision(telemetry.NewSample(*step.Vision, at))
		case step.Link != nil:
			sink.Link(telemetry.NewSample(*step.Link, at))
		case step.Identity != nil:
			sink.Identity(*step.Identity)
		case step.Ground != nil:
			sink.Ground(*step.Ground)
		}

		if after != nil {
			after(i, step)
		}
	}
}
