package serialport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"card10/epic"
	"card10/hal"
)

// scriptPort replays reads and records writes.
type scriptPort struct {
	mu      sync.Mutex
	reads   [][]byte
	written bytes.Buffer
	flushed bool
	cancel  context.CancelFunc
}

func (p *scriptPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		p.cancel()
		return 0, io.EOF
	}
	next := p.reads[0]
	p.reads = p.reads[1:]
	if next == nil {
		return 0, io.EOF
	}
	return copy(b, next), nil
}

func (p *scriptPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *scriptPort) Flush() error {
	p.flushed = true
	return nil
}

func (p *scriptPort) Close() error { return nil }

func TestAttach(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := hal.NewSim(hal.SimConfig{})
	port := &scriptPort{reads: [][]byte{nil, []byte("ab"), nil, []byte("c")}, cancel: cancel}

	require.NoError(t, Attach(ctx, port, sim.UART))
	require.True(t, port.flushed)

	buf := make([]byte, 8)
	n := sim.UARTRead(buf)
	require.Equal(t, "abc", string(buf[:n]))

	epic.SetFirmware(sim)
	_, err := epic.Console.WriteString("hi\n")
	require.NoError(t, err)
	require.Equal(t, "hi\n", port.written.String())
}

type brokenPort struct{ scriptPort }

func (p *brokenPort) Read([]byte) (int, error) { return 0, errors.New("unplugged") }

func TestAttachReportsPortErrors(t *testing.T) {
	sim := hal.NewSim(hal.SimConfig{})
	err := Attach(context.Background(), &brokenPort{}, sim.UART)
	require.EqualError(t, err, "unplugged")
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	require.Equal(t, 115200, cfg.Baud)
	require.Equal(t, 100, cfg.ReadTimeout)
}
