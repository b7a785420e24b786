// Package config holds the host simulator's settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Headless  HeadlessConfig  `yaml:"headless"`
	UART      UARTConfig      `yaml:"uart"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Payloads  PayloadsConfig  `yaml:"payloads"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- WINDOW ----

type WindowConfig struct {
	Scale       int `yaml:"scale"`
	ConsoleRows int `yaml:"console_rows"` // console height in pixels at scale 1
}

// ---- HEADLESS ----

type HeadlessConfig struct {
	Hz    int    `yaml:"hz"`
	Ticks uint64 `yaml:"ticks"` // 0 runs until interrupted
}

// ---- UART ----

type UARTConfig struct {
	Echo       bool   `yaml:"echo"` // copy UART output to stdout
	Stdin      bool   `yaml:"stdin"`
	InputLimit int    `yaml:"input_limit"`
	Device     string `yaml:"device"` // serial port bridged to the UART (optional)
	Baud       int    `yaml:"baud"`
}

// ---- SENSORS ----

type SensorsConfig struct {
	Synthetic bool `yaml:"synthetic"`
	Queue     int  `yaml:"queue"`
}

// ---- PAYLOADS ----

type PayloadsConfig struct {
	Start string       `yaml:"start"`
	Files []FileConfig `yaml:"files"`
}

// FileConfig is an extra entry in the simulated file table.
type FileConfig struct {
	Path string `yaml:"path"`
	Kind string `yaml:"kind"` // elf, py, dir, data
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Broker   string `yaml:"broker"` // e.g. tcp://localhost:1883; empty disables
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"` // defaults to the machine id
	QoS      byte   `yaml:"qos"`
	Queue    int    `yaml:"queue"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		Window:   WindowConfig{Scale: 4, ConsoleRows: 60},
		Headless: HeadlessConfig{Hz: 30},
		UART:     UARTConfig{Echo: true, Stdin: true, InputLimit: 4096, Baud: 115200},
		Sensors:  SensorsConfig{Synthetic: true, Queue: 1024},
		Payloads: PayloadsConfig{Start: "/apps/menu.elf"},
		Telemetry: TelemetryConfig{
			Topic: "card10",
			Queue: 64,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse is Load for in-memory YAML.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
