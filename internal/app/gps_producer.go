package app

import (
	"bufio"
	"fmt"
	"log"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/nmeafc"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// RunGPSProducer opens the GPS serial port, turns NMEA sentences into
// flight controller samples and publishes them as JSON.
func RunGPSProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := publishJSON(client, cfg.TopicIdentity, true, telemetry.Identity{
		Name:  "gps",
		Model: "NMEA 0183 receiver",
	}); err != nil {
		return err
	}

	// ---- 2) Open GPS serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open GPS serial port %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("GPS serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	reader := bufio.NewReader(port)
	translator := nmeafc.NewTranslator(cfg.GPSFlyingAltitude)
	wasFlying := false
	homeLogged := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("GPS read: %w", err)
		}

		sample, ok, err := translator.Feed(line, time.Now())
		if err != nil {
			// noisy GPS or partial sentences
			continue
		}
		if !ok {
			continue
		}

		if err := publishJSON(client, cfg.TopicFlight, false, sample); err != nil {
			log.Printf("GPS publish error: %v", err)
			continue
		}

		if !homeLogged {
			if home, ok := translator.Home(); ok {
				homeLogged = true
				log.Printf("GPS: home set at %.6f,%.6f alt=%.1fm", home.Latitude, home.Longitude, home.Altitude)
			}
		}

		if sample.Value.Flying != wasFlying {
			wasFlying = sample.Value.Flying
			fix := translator.Fix()
			log.Printf("GPS: flying=%t at %.6f,%.6f alt=%.1fm", wasFlying, fix.Latitude, fix.Longitude, fix.Altitude)
		}
	}
}
