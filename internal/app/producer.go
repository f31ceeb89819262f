package app

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// RunProducer publishes the mock flight to the telemetry topics.
func RunProducer() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := publishJSON(client, cfg.TopicIdentity, true, mockIdentity()); err != nil {
		return err
	}

	src := telemetry.NewMockSource(mockHome, time.Now())
	ticker := time.NewTicker(config.Interval(cfg.ProducerSampleInterval))
	defer ticker.Stop()

	for now := range ticker.C {
		frame := src.Next(now)
		if err := publishFrame(client, cfg, frame); err != nil {
			log.Printf("producer: %v", err)
			continue
		}
		log.Printf("%s published frame: flying=%t sats=%d battery=%d%%",
			now.Format(time.RFC3339), frame.Flight.Value.Flying,
			frame.Flight.Value.SatelliteCount, frame.Battery.Value.ChargeRemainingPercent)
	}
	return nil
}

func publishFrame(client mqtt.Client, cfg *config.Config, f telemetry.Frame) error {
	if err := publishJSON(client, cfg.TopicFlight, false, f.Flight); err != nil {
		return err
	}
	if err := publishJSON(client, cfg.TopicBattery, false, f.Battery); err != nil {
		return err
	}
	if err := publishJSON(client, cfg.TopicVision, false, f.Vision); err != nil {
		return err
	}
	return publishJSON(client, cfg.TopicLink, false, f.LinkQuality)
}
