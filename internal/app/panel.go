package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/dronestate/internal/dronestate"
)

const (
	panelLineHeight = 13 // basicfont.Face7x13
	panelMargin     = 2
	absent          = "--"
)

// RenderPanel draws the status panel for snap onto a w x h grayscale
// image. have is false before the first flight sample.
func RenderPanel(snap dronestate.Snapshot, have bool, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}

	for i, line := range panelLines(snap, have) {
		y := panelLineHeight * (i + 1)
		if y > h {
			break
		}
		drawer.Dot = fixed.P(panelMargin, y)
		drawer.DrawString(line)
	}
	return img
}

func panelLines(snap dronestate.Snapshot, have bool) []string {
	if !have {
		return []string{"Drone State", "Waiting..."}
	}

	id := snap.ID
	if len(id) > 8 {
		id = id[:8]
	}
	mode := "GROUND"
	if snap.Flying {
		mode = "FLYING"
	}

	lines := []string{
		fmt.Sprintf("%s %s", id, mode),
		"LAT " + absent,
		"LON " + absent,
		fmt.Sprintf("ALT %.1fm", snap.Altitude),
		fmt.Sprintf("SPD %.1f/%.1f", snap.HorizontalSpeed, snap.VerticalSpeed),
		"BAT " + absent,
		"OBS " + absent,
		"SAT " + absent,
		"SIG " + absent,
	}

	if l := snap.Location; l != nil {
		lines[1] = "LAT " + hemisphere(l.Latitude, "N", "S")
		lines[2] = "LON " + hemisphere(l.Longitude, "E", "W")
	}
	if p := snap.BatteryPercent; p != nil {
		lines[5] = fmt.Sprintf("BAT %.0f%%", *p*100)
	}
	if d := snap.ObstacleDistance; d != nil {
		lines[6] = fmt.Sprintf("OBS %.1fm", *d)
	}
	if n := snap.GPSSatellites; n != nil {
		lines[7] = fmt.Sprintf("SAT %d", *n)
	}
	if s := snap.SignalStrength; s != nil {
		lines[8] = fmt.Sprintf("SIG %.0f", *s)
	}
	return lines
}

func hemisphere(v float64, pos, neg string) string {
	dir := pos
	if v < 0 {
		dir = neg
		v = -v
	}
	return fmt.Sprintf("%.5f%s", v, dir)
}
