// Package epic is a checked layer over the card10 firmware (Epicardium) call
// table.
//
// The firmware exposes stateless entry points that return integer status
// codes. This package turns them into handles with an explicit lifecycle
// (Display, Sensor), decodes status codes into a closed set of errors, and
// encodes the small binary formats the hardware consumes (RGB565 colors,
// null-terminated strings, sensor sample records, the framebuffer).
//
// Everything here is synchronous and single-threaded. Exclusive ownership of
// a peripheral is enforced by the firmware itself, which reports busy when a
// resource is already claimed; this package does not keep its own registry.
package epic

// LineStyle selects how Display.Line draws.
type LineStyle uint8

const (
	LineFull LineStyle = iota
	LineDotted
)

// FillStyle selects whether Display.Rect and Display.Circ are filled.
type FillStyle uint8

const (
	FillEmpty FillStyle = iota
	FillFilled
)

// Firmware is the Epicardium call table.
//
// Display, stream and uart-read calls return 0 (or a non-negative count) on
// success and a nonzero / negative errno otherwise. Exit never returns. Exec
// only returns on failure, with a negative errno.
type Firmware interface {
	DispOpen() int
	DispClose() int
	DispUpdate() int
	DispClear(color PackedColor) int
	DispPrint(x, y uint16, text []byte, fg, bg PackedColor) int
	DispPixel(x, y uint16, color PackedColor) int
	DispLine(xs, ys, xe, ye uint16, color PackedColor, style LineStyle, size uint16) int
	DispRect(xs, ys, xe, ye uint16, color PackedColor, style FillStyle, size uint16) int
	DispCirc(x, y, rad uint16, color PackedColor, style FillStyle, size uint16) int
	DispFramebuffer(fb *Framebuffer) int

	// BHI160Enable returns a stream descriptor, or a negative errno.
	BHI160Enable(kind SensorType, cfg SensorConfig) int
	BHI160Disable(kind SensorType)
	// StreamRead fills buf with whole SampleSize records and returns how
	// many were written.
	StreamRead(sd int, buf []byte) int

	ButtonsRead(mask Buttons) Buttons

	UARTWrite(p []byte)
	// UARTRead does not block; it returns 0 when nothing is pending.
	UARTRead(p []byte) int

	LEDsSet(led int, r, g, b uint8)

	Exit(code int)
	Exec(name []byte) int
}

var firmware Firmware

// SetFirmware registers the call table used by every operation in this
// package. Device builds register the Epicardium binding, host builds the
// simulator.
func SetFirmware(fw Firmware) {
	firmware = fw
}

// MustFirmware returns the registered call table or panics if missing.
func MustFirmware() Firmware {
	if firmware == nil {
		panic("epic: firmware not configured")
	}
	return firmware
}
