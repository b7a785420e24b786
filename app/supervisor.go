//go:build !tinygo

package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/golang/glog"

	"card10/hal"
)

// Supervisor plays the firmware's part on the host: it runs one payload at
// a time and starts the next one when it ends.
//
// A payload that exits, returns or panics is followed by the menu; one
// that calls epic.Exec is followed by the exec target.
type Supervisor struct {
	sim *hal.Sim
	reg *Registry
	log hal.Logger

	// OnStart, if set, is called with the path of each payload before it
	// starts.
	OnStart func(path string)
}

// NewSupervisor installs the registry's payloads into the simulator's
// loader and returns a supervisor for them.
func NewSupervisor(sim *hal.Sim, reg *Registry, log hal.Logger) *Supervisor {
	reg.Install(sim.Loader)
	return &Supervisor{sim: sim, reg: reg, log: log}
}

// Run starts the payload at start and keeps handing over until ctx ends.
func (s *Supervisor) Run(ctx context.Context, start string) error {
	path := start
	for ctx.Err() == nil {
		next, err := s.runOne(ctx, path)
		if err != nil {
			return err
		}
		path = next
	}
	return nil
}

func (s *Supervisor) runOne(ctx context.Context, path string) (string, error) {
	p, ok := s.reg.Lookup(path)
	if !ok {
		if path == MenuPath {
			return "", fmt.Errorf("supervisor: no payload at %s", path)
		}
		glog.Warningf("supervisor: %s is not installed, starting the menu", path)
		return MenuPath, nil
	}

	glog.Infof("supervisor: starting %s", path)
	if s.OnStart != nil {
		s.OnStart(path)
	}

	var (
		res   error
		value any
		stack []byte
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if v := recover(); v != nil {
				value, stack = v, debug.Stack()
			}
		}()
		res = p(ctx)
	}()
	<-done

	// Whatever the payload left claimed goes back to the firmware.
	s.sim.Reset()
	h, handed := s.sim.Loader.TakeHandoff()

	switch {
	case value != nil:
		glog.Errorf("supervisor: %s panicked: %v", path, value)
		ShowPanic(s.log, path, value, stack)
	case handed && h.Exec != "":
		glog.Infof("supervisor: %s hands over to %s", path, h.Exec)
		return h.Exec, nil
	case handed:
		glog.Infof("supervisor: %s exited with %d", path, h.Code)
	case res != nil:
		glog.Warningf("supervisor: %s: %v", path, res)
	default:
		glog.V(1).Infof("supervisor: %s returned", path)
	}
	return MenuPath, nil
}
