// Package serialport bridges the simulated UART to a real serial device,
// so a terminal or a second board sees what payloads print.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"card10/hal"
)

// Port is an open serial device.
type Port interface {
	io.ReadWriteCloser

	// Flush drops buffered data.
	Flush() error
}

// Config holds serial port settings.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string
	Baud   int
	// ReadTimeout in milliseconds; 0 blocks.
	ReadTimeout int
}

// DefaultConfig matches the card10 USB serial console.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

type nativePort struct {
	port *serial.Port
}

// Open opens a serial device.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &nativePort{port: port}, nil
}

func (p *nativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *nativePort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *nativePort) Flush() error                { return p.port.Flush() }

func (p *nativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Attach copies UART output to port and feeds what port receives into the
// UART input queue until ctx ends or the port fails.
func Attach(ctx context.Context, port Port, line *hal.SerialLine) error {
	if err := port.Flush(); err != nil {
		return fmt.Errorf("serialport: flush: %w", err)
	}
	line.AddSink(port)
	err := line.Pump(ctx, timeoutReader{port})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// timeoutReader turns the end-of-file a read timeout reports into an empty
// read, so the pump keeps polling.
type timeoutReader struct{ r io.Reader }

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}
