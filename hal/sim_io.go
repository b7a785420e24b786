package hal

import (
	"context"
	"io"
	"sync"

	"card10/epic"
)

// ButtonState is the pressed state of the four buttons.
type ButtonState struct {
	mu      sync.Mutex
	pressed epic.Buttons
}

// Set replaces the whole state.
func (b *ButtonState) Set(pressed epic.Buttons) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed = pressed & epic.AllButtons
}

func (b *ButtonState) Press(btn epic.Buttons) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed |= btn & epic.AllButtons
}

func (b *ButtonState) Release(btn epic.Buttons) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed &^= btn
}

func (b *ButtonState) read(mask epic.Buttons) epic.Buttons {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed & mask
}

// SerialLine simulates the UART multiplexer: output fans out to every sink,
// input is a bounded queue.
type SerialLine struct {
	mu    sync.Mutex
	sinks []io.Writer
	in    []byte
	limit int
	log   Logger
}

// DefaultInputLimit bounds pending UART input.
const DefaultInputLimit = 4096

func newSerialLine(limit int, log Logger) *SerialLine {
	if limit <= 0 {
		limit = DefaultInputLimit
	}
	return &SerialLine{limit: limit, log: log}
}

// AddSink adds w to the receivers of UART output.
func (s *SerialLine) AddSink(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, w)
}

// Feed queues p as UART input. Bytes beyond the limit are dropped and the
// number accepted is returned.
func (s *SerialLine) Feed(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.limit - len(s.in)
	if room <= 0 {
		return 0
	}
	if len(p) > room {
		p = p[:room]
	}
	s.in = append(s.in, p...)
	return len(p)
}

// Pending returns how many input bytes wait to be read.
func (s *SerialLine) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.in)
}

// Pump feeds everything read from r until r fails or ctx ends.
func (s *SerialLine) Pump(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if m := s.Feed(buf[:n]); m < n {
				logf(s.log, "uart: dropped %d input bytes", n-m)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (s *SerialLine) write(p []byte) {
	s.mu.Lock()
	sinks := s.sinks
	s.mu.Unlock()
	for _, w := range sinks {
		if _, err := w.Write(p); err != nil {
			logf(s.log, "uart: sink: %v", err)
		}
	}
}

func (s *SerialLine) read(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n
}

// LEDStrip holds the color of each RGB LED.
type LEDStrip struct {
	mu  sync.Mutex
	led [epic.LEDCount]epic.Color
}

// Snapshot returns all LED colors.
func (l *LEDStrip) Snapshot() [epic.LEDCount]epic.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.led
}

func (l *LEDStrip) set(i int, c epic.Color) {
	if i < 0 || i >= epic.LEDCount {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.led[i] = c
}
