package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values for the driver,
// transport, and ingest packages. The filter core itself takes no
// configuration (§6).
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDPublish string

	// Topics
	TopicAttitude        string
	TopicLocalPosition   string
	TopicGlobalPosition  string
	TopicControlState    string
	TopicEstimatorStatus string

	// IMU/baro hardware (I2C)
	IMUI2CDevice  string
	IMUI2CAddr    uint16
	BaroI2CDevice string
	BaroI2CAddr   uint16

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Timing
	IMUSampleIntervalMs int

	// Diagnostics
	WebsocketStatusPort int

	// Replay (cmd/iekf-replay)
	ReplayFilePath string
}

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

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

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

func (c *Config) setValue(key, value string) error {
	switch key {
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PUBLISH":
		c.MQTTClientIDPublish = value

	case "TOPIC_ATTITUDE":
		c.TopicAttitude = value
	case "TOPIC_LOCAL_POSITION":
		c.TopicLocalPosition = value
	case "TOPIC_GLOBAL_POSITION":
		c.TopicGlobalPosition = value
	case "TOPIC_CONTROL_STATE":
		c.TopicControlState = value
	case "TOPIC_ESTIMATOR_STATUS":
		c.TopicEstimatorStatus = value

	case "IMU_I2C_DEVICE":
		c.IMUI2CDevice = value
	case "IMU_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid IMU_I2C_ADDR %q: %w", value, err)
		}
		c.IMUI2CAddr = uint16(addr)
	case "BARO_I2C_DEVICE":
		c.BaroI2CDevice = value
	case "BARO_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid BARO_I2C_ADDR %q: %w", value, err)
		}
		c.BaroI2CAddr = uint16(addr)

	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	case "IMU_SAMPLE_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_SAMPLE_INTERVAL_MS %q: %w", value, err)
		}
		c.IMUSampleIntervalMs = interval

	case "WEBSOCKET_STATUS_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEBSOCKET_STATUS_PORT %q: %w", value, err)
		}
		c.WebsocketStatusPort = port

	case "REPLAY_FILE_PATH":
		c.ReplayFilePath = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required")
	}
	if c.GPSBaudRate == 0 {
		return fmt.Errorf("GPS_BAUD_RATE is required")
	}
	if c.IMUSampleIntervalMs == 0 {
		return fmt.Errorf("IMU_SAMPLE_INTERVAL_MS is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Safe to
// call more than once; only the first call takes effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must run
// first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
