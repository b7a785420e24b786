package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"card10/epic"
)

// Plot rows: x, y and z each get a 20 pixel band below the legend.
const (
	plotTop  = 20
	bandSize = 20
)

var accelConfig = epic.SensorConfig{
	SampleBufferLen: 100,
	SampleRate:      100,
	DynamicRange:    2,
}

// AccelPlot plots the accelerometer axes as scrolling traces, each
// normalized to the range seen so far. Errors are written to the UART and
// the plot starts over.
func AccelPlot(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := plotOnce(ctx); err != nil {
			fmt.Fprintf(epic.Console, "Error: %v\n", err)
			sleep(ctx, time.Second)
		}
	}
	return nil
}

func plotOnce(ctx context.Context) error {
	return epic.WithSensor(epic.Accelerometer, accelConfig, func(accel *epic.Sensor) error {
		return epic.WithDisplay(func(d *epic.Display) error {
			p := newPlotter(d)
			if err := p.legend(); err != nil {
				return err
			}
			for ctx.Err() == nil {
				samples, err := accel.Read()
				if err != nil {
					return err
				}
				if len(samples) == 0 {
					sleep(ctx, 10*time.Millisecond)
					continue
				}
				for _, v := range samples {
					if err := p.add(v); err != nil {
						return err
					}
				}
				if err := d.Update(); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

type axis struct {
	min, max float64
	last     float64
	have     bool
}

// scale maps v into [0, 1] using the range seen so far.
func (a *axis) scale(v float64) float64 {
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
	v -= a.min
	if a.max > a.min {
		v /= a.max - a.min
	}
	return v
}

type plotter struct {
	d    *epic.Display
	col  uint16
	axes [3]axis
}

var axisColors = [3]epic.Color{epic.Red, epic.Green, epic.Blue}

func newPlotter(d *epic.Display) *plotter {
	p := &plotter{d: d}
	for i := range p.axes {
		p.axes[i].min = math.Inf(1)
		p.axes[i].max = math.Inf(-1)
	}
	return p
}

func (p *plotter) legend() error {
	if err := p.d.Clear(epic.White); err != nil {
		return err
	}
	for i, name := range []string{"x", "y", "z"} {
		if err := p.d.Print(name, axisColors[i], epic.White, uint16(i*20), 0); err != nil {
			return err
		}
	}
	return nil
}

// add plots one sample in the next column, wiping the column ahead.
func (p *plotter) add(v epic.DataVector) error {
	if err := p.d.Line(p.col, plotTop, p.col, epic.Height, epic.White, epic.LineFull, 1); err != nil {
		return err
	}
	raw := [3]int16{v.X, v.Y, v.Z}
	for i := range p.axes {
		a := &p.axes[i]
		y := a.scale(float64(raw[i]))*bandSize + float64(plotTop+i*bandSize)
		if a.have && p.col > 0 {
			if err := p.d.Line(p.col-1, uint16(a.last), p.col, uint16(y), axisColors[i], epic.LineFull, 1); err != nil {
				return err
			}
		}
		a.last, a.have = y, true
	}
	p.col++
	if p.col >= epic.Width {
		p.col = 1
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
