package app

import (
	"fmt"
	"io"

	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/replay"
)

// RunReplay plays the script at path and prints the state after each step.
func RunReplay(path string, out io.Writer) error {
	script, err := replay.Load(path)
	if err != nil {
		return err
	}

	collector := NewCollector(dronestate.New(script.DroneID))
	script.Run(collector, func(i int, step replay.Step) {
		snap, _ := collector.Snapshot()
		initialized, located := collector.Status()
		fmt.Fprintf(out, "-- step %d (%s) at +%v\n", i, step.Kind(), step.At)
		fmt.Fprint(out, formatSnapshot(snap, initialized, located, snap.Time))
	})
	return nil
}
