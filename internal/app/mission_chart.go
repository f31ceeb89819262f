package app

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/relabs-tech/dronestate/internal/dronestate"
)

// renderMissionChart writes an HTML line chart of altitude and speeds.
// snaps is newest first, as returned by the mission log. flown is false
// when no flying snapshot was recorded.
func renderMissionChart(w io.Writer, droneID string, snaps []dronestate.Snapshot, flight time.Duration, flown bool) error {
	n := len(snaps)
	xs := make([]string, 0, n)
	alt := make([]opts.LineData, 0, n)
	hs := make([]opts.LineData, 0, n)
	vs := make([]opts.LineData, 0, n)

	for i := n - 1; i >= 0; i-- {
		s := snaps[i]
		xs = append(xs, s.Time.UTC().Format(time.TimeOnly))
		alt = append(alt, opts.LineData{Value: s.Altitude})
		hs = append(hs, opts.LineData{Value: s.HorizontalSpeed})
		vs = append(vs, opts.LineData{Value: s.VerticalSpeed})
	}

	flightLabel := absent
	if flown {
		flightLabel = flight.Round(time.Second).String()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mission " + droneID, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mission log", Subtitle: fmt.Sprintf("drone=%s samples=%d flight=%s", droneID, n, flightLabel)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (UTC)"}),
	)
	line.SetXAxis(xs).
		AddSeries("altitude (m)", alt).
		AddSeries("horizontal speed (m/s)", hs).
		AddSeries("vertical speed (m/s)", vs)

	return line.Render(w)
}
