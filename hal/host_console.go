//go:build !tinygo

package hal

import (
	"image"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// console renders UART output as a scrolling terminal. It is the pixel
// buffer tinyterm draws into; the window shows it below the LCD.
type console struct {
	mu     sync.Mutex
	img    *image.RGBA
	scroll int16
	term   *tinyterm.Terminal
}

func newConsole(width, height int) *console {
	c := &console{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.term = tinyterm.NewTerminal(c)
	c.term.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 7,
	})
	return c
}

// Write is a UART sink.
func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term.Write(p)
}

// snapshot copies the visible rows, oldest first, into dst.
func (c *console) snapshot(dst []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stride := c.img.Stride
	rows := c.img.Rect.Dy()
	top := int(c.scroll) % rows
	n := copy(dst, c.img.Pix[top*stride:])
	copy(dst[n:], c.img.Pix[:top*stride])
}

func (c *console) Size() (x, y int16) {
	b := c.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (c *console) SetPixel(x, y int16, col color.RGBA) {
	c.img.SetRGBA(int(x), int(y), col)
}

func (c *console) Display() error { return nil }

func (c *console) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			c.img.SetRGBA(int(i), int(j), col)
		}
	}
	return nil
}

// SetScroll sets the buffer row shown at the top, like a display with
// hardware scrolling.
func (c *console) SetScroll(line int16) {
	if line < 0 {
		line = 0
	}
	c.scroll = line
}

func (c *console) SetRotation(drivers.Rotation) error { return ErrNotImplemented }
