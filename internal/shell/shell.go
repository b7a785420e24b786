// Package shell is an interactive console that drives the epic API
// against the simulator, one call per command.
package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/abiosoft/ishell"

	"card10/epic"
	"card10/hal"
)

// Session is the state the commands share: the handles the operator holds.
type Session struct {
	sim     *hal.Sim
	disp    *epic.Display
	sensors map[epic.SensorType]*epic.Sensor
}

// NewSession returns an empty session. sim must be the registered
// firmware, directly or behind a tracer.
func NewSession(sim *hal.Sim) *Session {
	return &Session{sim: sim, sensors: make(map[epic.SensorType]*epic.Sensor)}
}

// Release closes every handle the session holds.
func (s *Session) Release() {
	if s.disp != nil {
		s.disp.Close()
		s.disp = nil
	}
	for k, sn := range s.sensors {
		sn.Disable()
		delete(s.sensors, k)
	}
}

type command struct {
	name    string
	aliases []string
	help    string
	run     func(s *Session, args []string) (string, error)
}

// Exec runs one command line and returns what it prints.
func (s *Session) Exec(name string, args ...string) (string, error) {
	for _, c := range commands {
		if c.name == name {
			return c.run(s, args)
		}
		for _, a := range c.aliases {
			if a == name {
				return c.run(s, args)
			}
		}
	}
	return "", fmt.Errorf("unknown command %q", name)
}

// Commands lists the command names.
func Commands() []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = c.name
	}
	sort.Strings(out)
	return out
}

const (
	sessionKey = "$session"
	prompt     = "card10 > "
)

// Shell wraps an ishell.Shell around a session.
type Shell struct {
	Shell   *ishell.Shell
	Session *Session
}

// New builds the interactive shell. The session's handles are released
// when the shell exits.
func New(sim *hal.Sim) *Shell {
	sh := &Shell{Shell: ishell.New(), Session: NewSession(sim)}
	sh.Shell.Set(sessionKey, sh.Session)
	sh.Shell.SetPrompt(prompt)
	for _, c := range commands {
		sh.Shell.AddCmd(ishellCmd(c))
	}
	return sh
}

func ishellCmd(c command) *ishell.Cmd {
	run := c.run
	return &ishell.Cmd{
		Name:    c.name,
		Aliases: c.aliases,
		Help:    c.help,
		Func: func(ctx *ishell.Context) {
			s := ctx.Get(sessionKey).(*Session)
			out, err := run(s, ctx.Args)
			if err != nil {
				ctx.Err(err)
				return
			}
			if out != "" {
				ctx.Println(strings.TrimRight(out, "\n"))
			}
		},
	}
}

// Run processes args as a single command, or starts the interactive loop
// when there are none.
func (sh *Shell) Run(args ...string) error {
	defer sh.Session.Release()
	if len(args) > 0 {
		return sh.Shell.Process(args...)
	}
	sh.Shell.Run()
	return nil
}

// SetOutput redirects UART output of the simulator to w as well.
func (sh *Shell) SetOutput(w io.Writer) {
	sh.Session.sim.UART.AddSink(w)
}
