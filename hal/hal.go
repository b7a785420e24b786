// Package hal provides the platforms the epic call table runs on: a
// simulator of the card10 firmware for host builds and the Epicardium
// binding for device builds.
package hal

import (
	"errors"
	"fmt"

	"card10/epic"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Board is the only contact point between payloads and the outside world.
type Board interface {
	Logger() Logger
	Firmware() epic.Firmware
}

// Install registers b's firmware with package epic and returns b.
func Install(b Board) Board {
	epic.SetFirmware(b.Firmware())
	return b
}

// logf formats a line for l. A nil logger drops it.
func logf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}
