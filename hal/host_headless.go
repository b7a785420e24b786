//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
}

// RunHeadless runs payloads without opening a window. It stops when ctx
// ends, when run returns or after cfg.Ticks ticks.
func RunHeadless(ctx context.Context, h *Host, cfg HeadlessConfig, run func(ctx context.Context) error) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	t := time.NewTicker(d)
	defer t.Stop()

	var tick, frames uint64
	for {
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			cancel()
			return <-done
		case <-t.C:
			tick++
			if f := h.Sim.LCD.Frames(); f != frames {
				frames = f
				glog.V(1).Infof("tick %d: frame %d", tick, f)
			}
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				cancel()
				return <-done
			}
		}
	}
}
