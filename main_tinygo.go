//go:build tinygo && card10

package main

import (
	"context"
	"runtime/debug"

	"card10/app"
	"card10/epic"
	"card10/hal"
)

// l0dable entry point: the firmware starts this payload and takes over
// again when it exits.
func main() {
	b := hal.Install(hal.New())
	defer func() {
		if v := recover(); v != nil {
			app.ShowPanic(b.Logger(), "accelplot", v, debug.Stack())
			epic.Exit(1)
		}
	}()
	if err := app.AccelPlot(context.Background()); err != nil {
		b.Logger().WriteLineString("accelplot: " + err.Error())
		epic.Exit(1)
	}
	epic.Exit(0)
}
