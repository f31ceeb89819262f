package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDGPS      string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDRecorder string

	// Topics
	TopicFlight   string
	TopicBattery  string
	TopicVision   string
	TopicLink     string
	TopicIdentity string
	TopicState    string

	// Drone identity. Empty means generate one at startup.
	DroneID string

	// GPS
	GPSSerialPort     string
	GPSBaudRate       int
	GPSFlyingAltitude float64 // metres above home altitude

	// Timing (milliseconds)
	ProducerSampleInterval int
	ConsoleLogInterval     int
	StatePublishInterval   int
	RecorderInterval       int

	// Web Server
	WebServerPort int
	PanelWidth    int
	PanelHeight   int

	// Mission log
	RecorderDBPath string
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTClientIDProducer: "dronestate-producer",
		MQTTClientIDGPS:      "dronestate-gps-producer",
		MQTTClientIDConsole:  "dronestate-console",
		MQTTClientIDWeb:      "dronestate-web",
		MQTTClientIDRecorder: "dronestate-recorder",

		TopicFlight:   "drone/telemetry/flight",
		TopicBattery:  "drone/telemetry/battery",
		TopicVision:   "drone/telemetry/vision",
		TopicLink:     "drone/telemetry/link",
		TopicIdentity: "drone/telemetry/identity",
		TopicState:    "drone/state",

		DroneID: "drone-1",

		GPSSerialPort:     "/dev/serial0",
		GPSBaudRate:       9600,
		GPSFlyingAltitude: 2.0,

		ProducerSampleInterval: 100,
		ConsoleLogInterval:     1000,
		StatePublishInterval:   500,
		RecorderInterval:       1000,

		WebServerPort: 8080,
		PanelWidth:    128,
		PanelHeight:   128,

		RecorderDBPath: "dronestate_missionlog.sqlite",
	}
}

// Package-level singleton. InitGlobal sets it once, Get reads it under
// the read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_RECORDER":
		c.MQTTClientIDRecorder = value

	// Topics
	case "TOPIC_FLIGHT":
		c.TopicFlight = value
	case "TOPIC_BATTERY":
		c.TopicBattery = value
	case "TOPIC_VISION":
		c.TopicVision = value
	case "TOPIC_LINK":
		c.TopicLink = value
	case "TOPIC_IDENTITY":
		c.TopicIdentity = value
	case "TOPIC_STATE":
		c.TopicState = value

	case "DRONE_ID":
		c.DroneID = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate
	case "GPS_FLYING_ALTITUDE":
		alt, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GPS_FLYING_ALTITUDE %q: %w", value, err)
		}
		if alt < 0 {
			return fmt.Errorf("GPS_FLYING_ALTITUDE must be >= 0, got %v", alt)
		}
		c.GPSFlyingAltitude = alt

	// Timing
	case "PRODUCER_SAMPLE_INTERVAL":
		return setInterval(&c.ProducerSampleInterval, key, value)
	case "CONSOLE_LOG_INTERVAL":
		return setInterval(&c.ConsoleLogInterval, key, value)
	case "STATE_PUBLISH_INTERVAL":
		return setInterval(&c.StatePublishInterval, key, value)
	case "RECORDER_INTERVAL":
		return setInterval(&c.RecorderInterval, key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port <= 0 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port
	case "PANEL_WIDTH":
		return setPixels(&c.PanelWidth, key, value)
	case "PANEL_HEIGHT":
		return setPixels(&c.PanelHeight, key, value)

	// Mission log
	case "RECORDER_DB_PATH":
		c.RecorderDBPath = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func setInterval(dst *int, key, value string) error {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if ms <= 0 {
		return fmt.Errorf("%s must be > 0 ms, got %d", key, ms)
	}
	*dst = ms
	return nil
}

func setPixels(dst *int, key, value string) error {
	px, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if px < 32 || px > 4096 {
		return fmt.Errorf("%s must be 32-4096, got %d", key, px)
	}
	*dst = px
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicFlight == "" {
		return fmt.Errorf("TOPIC_FLIGHT is required")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be > 0")
	}
	return nil
}

// Interval converts one of the millisecond settings to a duration.
func Interval(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
