// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/transport"
)

// ErrUnknownKey is wrapped when a config file names a key this program does not know.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all application configuration values.
type Config struct {
	// Source
	Source            string `yaml:"source"` // serial, mqtt or mock
	SerialDriver      string `yaml:"serial_driver"`
	SerialPort        string `yaml:"serial_port"`
	SerialBaudRate    int    `yaml:"serial_baud_rate"`
	SerialDataBits    int    `yaml:"serial_data_bits"`
	SerialStopBits    int    `yaml:"serial_stop_bits"`
	SerialParity      string `yaml:"serial_parity"`
	SerialReadTimeout int    `yaml:"serial_read_timeout"` // milliseconds

	// Pipeline
	Channels     string `yaml:"channels"`
	RenderMode   string `yaml:"render_mode"`
	Window       int    `yaml:"window"`
	BatchSize    int    `yaml:"batch_size"`
	TickInterval int    `yaml:"tick_interval"` // milliseconds

	// MQTT
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTClientID string `yaml:"mqtt_client_id"`
	TopicLines   string `yaml:"topic_lines"`
	TopicFrame   string `yaml:"topic_frame"`

	// Renderers
	WebServerPort  int    `yaml:"web_server_port"`
	ConsoleEvery   int    `yaml:"console_every"`
	DisplayEnabled bool   `yaml:"display_enabled"`
	DisplayEvery   int    `yaml:"display_every"`
	PlotSnapshot   string `yaml:"plot_snapshot"`

	// Line producer
	ProducerInterval int `yaml:"producer_interval"` // milliseconds

	LogLevel string `yaml:"log_level"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used when a key is not set.
func Default() *Config {
	return &Config{
		Source:            "serial",
		SerialDriver:      string(transport.DriverBugST),
		SerialPort:        "/dev/ttyUSB0",
		SerialBaudRate:    115200,
		SerialDataBits:    8,
		SerialStopBits:    1,
		SerialParity:      "N",
		SerialReadTimeout: 10,
		Channels:          orientation.PitchRollYaw.String(),
		RenderMode:        orientation.Render3D.String(),
		Window:            200,
		BatchSize:         5,
		TickInterval:      30,
		MQTTBroker:        "tcp://localhost:1883",
		MQTTClientID:      "attitude-plotter",
		TopicLines:        "attitude/lines",
		WebServerPort:     8080,
		DisplayEvery:      10,
		ProducerInterval:  20,
		LogLevel:          "info",
	}
}

// Load reads a configuration file. Files ending in .yaml or .yml are decoded
// as YAML, anything else as KEY=VALUE lines.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return LoadYAML(file)
	default:
		return Parse(file)
	}
}

// Parse reads KEY=VALUE lines. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
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

// LoadYAML decodes a YAML document over the defaults. Unknown fields are errors.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, err)
		}
		return nil, fmt.Errorf("invalid yaml config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Source
	case "SOURCE":
		c.Source = strings.ToLower(value)
	case "SERIAL_DRIVER":
		c.SerialDriver = strings.ToLower(value)
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = parseInt(key, value)
	case "SERIAL_DATA_BITS":
		c.SerialDataBits, err = parseInt(key, value)
	case "SERIAL_STOP_BITS":
		c.SerialStopBits, err = parseInt(key, value)
	case "SERIAL_PARITY":
		c.SerialParity = value
	case "SERIAL_READ_TIMEOUT":
		c.SerialReadTimeout, err = parseInt(key, value)

	// Pipeline
	case "CHANNELS":
		c.Channels = value
	case "RENDER_MODE":
		c.RenderMode = value
	case "WINDOW":
		c.Window, err = parseInt(key, value)
	case "BATCH_SIZE":
		c.BatchSize, err = parseInt(key, value)
	case "TICK_INTERVAL":
		c.TickInterval, err = parseInt(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_LINES":
		c.TopicLines = value
	case "TOPIC_FRAME":
		c.TopicFrame = value

	// Renderers
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)
	case "CONSOLE_EVERY":
		c.ConsoleEvery, err = parseInt(key, value)
	case "DISPLAY_ENABLED":
		c.DisplayEnabled, err = strconv.ParseBool(value)
		if err != nil {
			err = fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
	case "DISPLAY_EVERY":
		c.DisplayEvery, err = parseInt(key, value)
	case "PLOT_SNAPSHOT":
		c.PlotSnapshot = value

	case "PRODUCER_INTERVAL":
		c.ProducerInterval, err = parseInt(key, value)
	case "LOG_LEVEL":
		c.LogLevel = value

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return err
}

// validate checks ranges and enumerations.
func (c *Config) validate() error {
	switch c.Source {
	case "serial", "mqtt", "mock":
	default:
		return fmt.Errorf("SOURCE must be serial, mqtt or mock, got %q", c.Source)
	}
	if _, err := transport.ParseDriver(c.SerialDriver); err != nil {
		return fmt.Errorf("SERIAL_DRIVER: %w", err)
	}
	if c.Source == "serial" && c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if _, err := c.PortOptions().Normalize(); err != nil {
		return fmt.Errorf("serial options: %w", err)
	}
	if c.SerialReadTimeout < 1 {
		return fmt.Errorf("SERIAL_READ_TIMEOUT must be >= 1 ms")
	}
	if _, err := c.Variant(); err != nil {
		return err
	}
	if c.Window < 1 {
		return fmt.Errorf("WINDOW must be >= 1")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be >= 1")
	}
	if c.TickInterval < 1 {
		return fmt.Errorf("TICK_INTERVAL must be >= 1 ms")
	}
	if c.Source == "mqtt" || c.TopicFrame != "" {
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT_BROKER is required")
		}
	}
	if c.Source == "mqtt" && c.TopicLines == "" {
		return fmt.Errorf("TOPIC_LINES is required for the mqtt source")
	}
	if c.WebServerPort < 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT out of range: %d", c.WebServerPort)
	}
	if c.ConsoleEvery < 0 {
		return fmt.Errorf("CONSOLE_EVERY must be >= 0")
	}
	if c.DisplayEvery < 1 {
		return fmt.Errorf("DISPLAY_EVERY must be >= 1")
	}
	if c.ProducerInterval < 1 {
		return fmt.Errorf("PRODUCER_INTERVAL must be >= 1 ms")
	}
	return nil
}

// Variant parses CHANNELS and RENDER_MODE.
func (c *Config) Variant() (orientation.Variant, error) {
	set, err := orientation.ParseChannelSet(c.Channels)
	if err != nil {
		return orientation.Variant{}, fmt.Errorf("CHANNELS: %w", err)
	}
	mode, err := orientation.ParseRenderMode(c.RenderMode)
	if err != nil {
		return orientation.Variant{}, fmt.Errorf("RENDER_MODE: %w", err)
	}
	return orientation.Variant{Channels: set, Mode: mode}, nil
}

// PortOptions returns the serial framing settings.
func (c *Config) PortOptions() transport.PortOptions {
	return transport.PortOptions{
		BaudRate:    c.SerialBaudRate,
		DataBits:    c.SerialDataBits,
		StopBits:    c.SerialStopBits,
		Parity:      c.SerialParity,
		ReadTimeout: ms(c.SerialReadTimeout),
	}
}

// Tick returns TICK_INTERVAL as a duration.
func (c *Config) Tick() time.Duration { return ms(c.TickInterval) }

// ProducerTick returns PRODUCER_INTERVAL as a duration.
func (c *Config) ProducerTick() time.Duration { return ms(c.ProducerInterval) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// InitGlobal loads the global configuration once. Later calls return the
// result of the first.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
