//go:build !tinygo

package hal

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"card10/epic"
)

// HostConfig configures the host board.
type HostConfig struct {
	Sim SimConfig
	// EchoUART copies UART output to stdout.
	EchoUART bool
	// Trace logs every firmware call at glog verbosity 2.
	Trace bool
}

// Host is the host board: the simulator plus glog based logging.
type Host struct {
	Sim    *Sim
	logger *hostLogger
	fw     epic.Firmware
}

// NewHost returns a host board. The simulator logs through glog unless
// cfg.Sim.Logger is set.
func NewHost(cfg HostConfig) *Host {
	logger := &hostLogger{}
	if cfg.Sim.Logger == nil {
		cfg.Sim.Logger = logger
	}
	sim := NewSim(cfg.Sim)
	if cfg.EchoUART {
		sim.UART.AddSink(os.Stdout)
	}
	h := &Host{Sim: sim, logger: logger, fw: sim}
	if cfg.Trace {
		h.fw = &tracer{Firmware: sim}
	}
	return h
}

func (h *Host) Logger() Logger          { return h.logger }
func (h *Host) Firmware() epic.Firmware { return h.fw }

// PumpInput feeds r into the simulated UART until ctx ends.
func (h *Host) PumpInput(ctx context.Context, r io.Reader) {
	go func() {
		if err := h.Sim.UART.Pump(ctx, r); err != nil && ctx.Err() == nil {
			glog.Warningf("uart: stdin: %v", err)
		}
	}()
}

type hostLogger struct{}

func (hostLogger) WriteLineString(s string) {
	glog.InfoDepth(1, strings.TrimRight(s, "\n"))
}

func (l hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}
