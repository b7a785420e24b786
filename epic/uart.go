package epic

// UART writes to and reads from every serial device the firmware knows
// about (hardware UART and USB CDC-ACM).
type UART struct{}

// Console is the UART as an io.ReadWriter.
//
// Reads never block: with no input pending Read returns 0, nil. That breaks
// the io.Reader contract helpers like bufio.Scanner and io.Copy rely on, so
// callers poll Console in their own loop instead.
var Console UART

// Write sends p. It always succeeds.
func (UART) Write(p []byte) (int, error) {
	if len(p) > 0 {
		MustFirmware().UARTWrite(p)
	}
	return len(p), nil
}

func (u UART) WriteString(s string) (int, error) {
	return u.Write([]byte(s))
}

// Read returns pending input without blocking; n is 0 when nothing is
// waiting.
func (UART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := MustFirmware().UARTRead(p)
	if n < 0 {
		return 0, ErrDeviceOrResourceBusy
	}
	if n > len(p) {
		n = len(p)
	}
	return n, nil
}
