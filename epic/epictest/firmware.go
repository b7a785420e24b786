// Package epictest provides a recording epic.Firmware for tests.
package epictest

import (
	"fmt"
	"strings"
	"sync"

	"card10/epic"
)

// Call is one recorded firmware call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Firmware records every call and answers with configurable results.
//
// Status fields default to 0 (success). Stream holds the records handed out
// by StreamRead; Reported, when set, overrides the returned count.
// Recording is safe from finalizer goroutines.
type Firmware struct {
	mu    sync.Mutex
	calls []Call

	OpenStatus   int
	CloseStatus  int
	DrawStatus   int
	EnableResult int
	ExecResult   int

	Stream   []epic.DataVector
	Reported *int

	Pressed epic.Buttons
	Input   []byte
	UART    []byte
	LEDs    [epic.LEDCount]epic.Color

	ExitCode *int
}

// Install registers f as the package firmware and returns it.
func Install() *Firmware {
	f := &Firmware{}
	epic.SetFirmware(f)
	return f
}

func (f *Firmware) record(name string, args ...any) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: args})
	f.mu.Unlock()
}

// Calls returns a copy of the recorded calls, oldest first.
func (f *Firmware) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times name was called.
func (f *Firmware) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call, or a zero Call.
func (f *Firmware) Last() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}

// Reset forgets recorded calls.
func (f *Firmware) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

func (f *Firmware) DispOpen() int {
	f.record("DispOpen")
	return f.OpenStatus
}

func (f *Firmware) DispClose() int {
	f.record("DispClose")
	return f.CloseStatus
}

func (f *Firmware) DispUpdate() int {
	f.record("DispUpdate")
	return f.DrawStatus
}

func (f *Firmware) DispClear(color epic.PackedColor) int {
	f.record("DispClear", color)
	return f.DrawStatus
}

func (f *Firmware) DispPrint(x, y uint16, text []byte, fg, bg epic.PackedColor) int {
	f.record("DispPrint", x, y, string(text), fg, bg)
	return f.DrawStatus
}

func (f *Firmware) DispPixel(x, y uint16, color epic.PackedColor) int {
	f.record("DispPixel", x, y, color)
	return f.DrawStatus
}

func (f *Firmware) DispLine(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.LineStyle, size uint16) int {
	f.record("DispLine", xs, ys, xe, ye, color, style, size)
	return f.DrawStatus
}

func (f *Firmware) DispRect(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	f.record("DispRect", xs, ys, xe, ye, color, style, size)
	return f.DrawStatus
}

func (f *Firmware) DispCirc(x, y, rad uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	f.record("DispCirc", x, y, rad, color, style, size)
	return f.DrawStatus
}

func (f *Firmware) DispFramebuffer(fb *epic.Framebuffer) int {
	f.record("DispFramebuffer", fb)
	return f.DrawStatus
}

func (f *Firmware) BHI160Enable(kind epic.SensorType, cfg epic.SensorConfig) int {
	f.record("BHI160Enable", kind, cfg)
	return f.EnableResult
}

func (f *Firmware) BHI160Disable(kind epic.SensorType) {
	f.record("BHI160Disable", kind)
}

// StreamRead copies as many queued records as fit into buf.
func (f *Firmware) StreamRead(sd int, buf []byte) int {
	f.record("StreamRead", sd, len(buf))
	n := len(buf) / epic.SampleSize
	if n > len(f.Stream) {
		n = len(f.Stream)
	}
	for i := 0; i < n; i++ {
		epic.PutDataVector(buf[i*epic.SampleSize:], epic.Accelerometer, f.Stream[i])
	}
	f.Stream = f.Stream[n:]
	if f.Reported != nil {
		return *f.Reported
	}
	return n
}

func (f *Firmware) ButtonsRead(mask epic.Buttons) epic.Buttons {
	f.record("ButtonsRead", mask)
	return f.Pressed & mask
}

func (f *Firmware) UARTWrite(p []byte) {
	f.record("UARTWrite", string(p))
	f.UART = append(f.UART, p...)
}

func (f *Firmware) UARTRead(p []byte) int {
	f.record("UARTRead", len(p))
	n := copy(p, f.Input)
	f.Input = f.Input[n:]
	return n
}

func (f *Firmware) LEDsSet(led int, r, g, b uint8) {
	f.record("LEDsSet", led, r, g, b)
	if led >= 0 && led < len(f.LEDs) {
		f.LEDs[led] = epic.Color{R: r, G: g, B: b}
	}
}

// Exit records the code and returns, which epic.Exit turns into a panic.
func (f *Firmware) Exit(code int) {
	f.record("Exit", code)
	f.ExitCode = &code
}

func (f *Firmware) Exec(name []byte) int {
	f.record("Exec", string(name))
	return f.ExecResult
}
