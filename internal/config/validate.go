package config

import (
	"fmt"
	"net/url"
	"strings"
)

var fileKinds = map[string]bool{"elf": true, "py": true, "dir": true, "data": true}

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Window.Scale < 1 || cfg.Window.Scale > 16 {
		return fmt.Errorf("window: scale %d out of range 1..16", cfg.Window.Scale)
	}
	if cfg.Window.ConsoleRows < 0 {
		return fmt.Errorf("window: console_rows must not be negative")
	}

	if cfg.Headless.Hz <= 0 {
		return fmt.Errorf("headless: hz must be positive")
	}

	if cfg.UART.InputLimit < 0 {
		return fmt.Errorf("uart: input_limit must not be negative")
	}
	if cfg.UART.Device != "" && cfg.UART.Baud <= 0 {
		return fmt.Errorf("uart: device %q needs a positive baud rate", cfg.UART.Device)
	}

	if cfg.Sensors.Queue < 0 || cfg.Sensors.Queue > 1024 {
		return fmt.Errorf("sensors: queue %d out of range 0..1024", cfg.Sensors.Queue)
	}

	if !strings.HasPrefix(cfg.Payloads.Start, "/") {
		return fmt.Errorf("payloads: start %q must be an absolute path", cfg.Payloads.Start)
	}
	seen := make(map[string]bool)
	for _, f := range cfg.Payloads.Files {
		if !strings.HasPrefix(f.Path, "/") {
			return fmt.Errorf("payloads: file %q must be an absolute path", f.Path)
		}
		if !fileKinds[f.Kind] {
			return fmt.Errorf("payloads: file %q has unknown kind %q", f.Path, f.Kind)
		}
		if seen[f.Path] {
			return fmt.Errorf("payloads: file %q listed twice", f.Path)
		}
		seen[f.Path] = true
	}

	if cfg.Telemetry.Broker != "" {
		u, err := url.Parse(cfg.Telemetry.Broker)
		if err != nil {
			return fmt.Errorf("telemetry: broker: %w", err)
		}
		switch u.Scheme {
		case "tcp", "ssl", "ws", "wss", "mqtt":
		default:
			return fmt.Errorf("telemetry: broker scheme %q not supported", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("telemetry: broker %q has no host", cfg.Telemetry.Broker)
		}
		if cfg.Telemetry.Topic == "" {
			return fmt.Errorf("telemetry: topic is required")
		}
		if strings.ContainsAny(cfg.Telemetry.Topic, "+#") {
			return fmt.Errorf("telemetry: topic %q must not contain wildcards", cfg.Telemetry.Topic)
		}
		if cfg.Telemetry.QoS > 2 {
			return fmt.Errorf("telemetry: qos %d out of range 0..2", cfg.Telemetry.QoS)
		}
		if cfg.Telemetry.Queue <= 0 {
			return fmt.Errorf("telemetry: queue must be positive")
		}
	}
	return nil
}
