package epic

import "runtime"

// Logical display bounds. Coordinates are accepted up to and including
// these values.
const (
	Width  = 160
	Height = 80
)

type displayState uint8

const (
	displayOpened displayState = iota + 1
	displayClosed
)

// Display is an exclusive lock on the LCD.
//
// Only OpenDisplay creates one. Once closed, a Display stays closed; open a
// new one to draw again. The lock is released exactly once: by Close, by
// WithDisplay on return, or by a finalizer if the handle becomes
// unreachable while still open.
type Display struct {
	fw    Firmware
	state displayState
}

// OpenDisplay locks the display. It fails with ErrDeviceOrResourceBusy if
// the firmware refuses, typically because another owner holds the lock.
func OpenDisplay() (*Display, error) {
	fw := MustFirmware()
	if res := fw.DispOpen(); res != 0 {
		return nil, ErrDeviceOrResourceBusy
	}
	d := &Display{fw: fw, state: displayOpened}
	runtime.SetFinalizer(d, (*Display).Close)
	return d, nil
}

// WithDisplay opens the display, runs fn and closes the display on every
// way out of fn.
func WithDisplay(fn func(d *Display) error) error {
	d, err := OpenDisplay()
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

// IsOpen reports whether d still holds the lock.
func (d *Display) IsOpen() bool { return d.state == displayOpened }

// Close unlocks the display. The handle is marked closed before the
// firmware is called and a firmware error is ignored. Closing twice is a
// no-op.
func (d *Display) Close() {
	if d.state != displayOpened {
		return
	}
	d.state = displayClosed
	runtime.SetFinalizer(d, nil)
	_ = d.fw.DispClose()
}

func (d *Display) check() error {
	if d.state != displayOpened {
		return ErrDisplayClosed
	}
	return nil
}

func outside(x, y uint16) bool {
	return x > Width || y > Height
}

// Update shows everything drawn since the last update.
func (d *Display) Update() error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return statusError(d.fw.DispUpdate())
}

// Clear fills the screen with c. Pass the zero Color for black.
func (d *Display) Clear(c Color) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return statusError(d.fw.DispClear(c.RGB565()))
}

// Print draws text with its top-left corner at (x, y). Text longer than
// MaxStringLen-1 bytes is cut; the position is not checked and the firmware
// clips what does not fit.
func (d *Display) Print(text string, fg, bg Color, x, y uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return statusError(d.fw.DispPrint(x, y, NullTerminated(text), fg.RGB565(), bg.RGB565()))
}

// Pixel sets a single pixel.
func (d *Display) Pixel(x, y uint16, c Color) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	if outside(x, y) {
		return ErrOutsideDisplay
	}
	return statusError(d.fw.DispPixel(x, y, c.RGB565()))
}

// Line draws from (xs, ys) to (xe, ye). size is the pixel size, 1 to 8.
func (d *Display) Line(xs, ys, xe, ye uint16, c Color, style LineStyle, size uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	if outside(xs, ys) || outside(xe, ye) {
		return ErrOutsideDisplay
	}
	return statusError(d.fw.DispLine(xs, ys, xe, ye, c.RGB565(), style, size))
}

// Rect draws the rectangle with corners (xs, ys) and (xe, ye).
func (d *Display) Rect(xs, ys, xe, ye uint16, c Color, style FillStyle, size uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	if outside(xs, ys) || outside(xe, ye) {
		return ErrOutsideDisplay
	}
	return statusError(d.fw.DispRect(xs, ys, xe, ye, c.RGB565(), style, size))
}

// Circ draws a circle around (x, y). Only the center is bounds checked.
func (d *Display) Circ(x, y, rad uint16, c Color, style FillStyle, size uint16) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	if outside(x, y) {
		return ErrOutsideDisplay
	}
	return statusError(d.fw.DispCirc(x, y, rad, c.RGB565(), style, size))
}

// Framebuffer sends fb to the screen at once, replacing whatever immediate
// mode drawing put there.
func (d *Display) Framebuffer(fb *Framebuffer) error {
	if err := d.check(); err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return statusError(d.fw.DispFramebuffer(fb))
}
