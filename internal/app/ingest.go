package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/dronestate/internal/config"
	"github.com/relabs-tech/dronestate/internal/telemetry"
)

// SubscribeTelemetry routes every telemetry topic in cfg into c.
func SubscribeTelemetry(client mqtt.Client, cfg *config.Config, c *Collector) error {
	if err := subscribeSample(client, cfg.TopicFlight, "flight", c.Flight); err != nil {
		return err
	}
	if err := subscribeSample(client, cfg.TopicBattery, "battery", c.Battery); err != nil {
		return err
	}
	if err := subscribeSample(client, cfg.TopicVision, "vision", c.Vision); err != nil {
		return err
	}
	if err := subscribeSample(client, cfg.TopicLink, "link", c.Link); err != nil {
		return err
	}

	token := client.Subscribe(cfg.TopicIdentity, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var id telemetry.Identity
		if err := json.Unmarshal(msg.Payload(), &id); err != nil {
			log.Printf("ingest: identity unmarshal error: %v", err)
			return
		}
		c.Identity(id)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.TopicIdentity, token.Error())
	}
	log.Printf("ingest: subscribed to %s", cfg.TopicIdentity)
	return nil
}

func subscribeSample[T any](client mqtt.Client, topic, name string, apply func(telemetry.Sample[T])) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := decodeSample[T](msg.Payload(), time.Now())
		if err != nil {
			log.Printf("ingest: %s unmarshal error: %v", name, err)
			return
		}
		apply(s)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	log.Printf("ingest: subscribed to %s", topic)
	return nil
}

// decodeSample parses a JSON sample, stamping it with receivedAt when the
// producer sent no timestamp.
func decodeSample[T any](payload []byte, receivedAt time.Time) (telemetry.Sample[T], error) {
	var s telemetry.Sample[T]
	if err := json.Unmarshal(payload, &s); err != nil {
		return telemetry.Sample[T]{}, err
	}
	return s.Stamped(receivedAt), nil
}
