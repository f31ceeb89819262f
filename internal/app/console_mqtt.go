package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/dronestate"
	"github.com/relabs-tech/dronestate/internal/orientation"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runConsole(client, cfg, sigCh)
}

// runConsole prints the derived state until stop fires. It owns client and
// disconnects it on every return path.
func runConsole(client mqtt.Client, cfg *config.Config, stop <-chan os.Signal) error {
	defer client.Disconnect(250)

	collector := NewCollector(dronestate.New(droneID(cfg)))
	if err := SubscribeTelemetry(client, cfg, collector); err != nil {
		return err
	}

	ticker := time.NewTicker(config.Interval(cfg.ConsoleLogInterval))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Println("console: shutting down")
			return nil
		case now := <-ticker.C:
			printState(collector, now)
		}
	}
}

func printState(c *Collector, now time.Time) {
	snap, ok := c.Snapshot()
	if !ok {
		fmt.Println("[STATE] waiting for flight data")
		return
	}
	initialized, located := c.Status()
	fmt.Print(formatSnapshot(snap, initialized, located, now))
}

func formatSnapshot(snap dronestate.Snapshot, initialized, located bool, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[STATE] %s flying=%t initialized=%t located=%t updated %s\n",
		snap.ID, snap.Flying, initialized, located,
		humanize.RelTime(snap.Time, now, "ago", "from now"))

	fmt.Fprintf(&b, "  loc=%s home=%s ground=%s takeoff=%s\n",
		formatLocation(snap.Location), formatLocation(snap.HomeLocation),
		formatLocation(snap.LastKnownGroundLocation), formatLocation(snap.TakeoffLocation))

	att := snap.MissionOrientation.Degrees()
	fmt.Fprintf(&b, "  alt=%.1fm course=%.1f° hspeed=%.1fm/s vspeed=%.1fm/s ROLL=%6.2f PITCH=%6.2f YAW=%6.2f\n",
		snap.Altitude, orientation.RadiansToDegrees(snap.Course), snap.HorizontalSpeed, snap.VerticalSpeed,
		att.Roll, att.Pitch, att.Yaw)

	fmt.Fprintf(&b, "  battery=%s obstacle=%s sats=%s signal=%s\n",
		formatOptional(snap.BatteryPercent, func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }),
		formatOptional(snap.ObstacleDistance, func(v float64) string { return fmt.Sprintf("%.1fm", v) }),
		formatOptional(snap.GPSSatellites, func(v int) string { return fmt.Sprintf("%d", v) }),
		formatOptional(snap.SignalStrength, func(v float64) string { return fmt.Sprintf("%.0f", v) }))

	return b.String()
}

func formatLocation(l *telemetry.Location) string {
	if l == nil {
		return absent
	}
	return fmt.Sprintf("%.6f,%.6f", l.Latitude, l.Longitude)
}

func formatOptional[T any](v *T, format func(T) string) string {
	if v == nil {
		return absent
	}
	return format(*v)
}
