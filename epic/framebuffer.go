package epic

import (
	"image/color"
	"unsafe"

	"tinygo.org/x/drivers"
)

// Framebuffer is a full screen of pixels in the layout the firmware copies
// to the LCD: rows of columns of RGB565, high byte first.
//
// It implements drivers.Displayer, so tinyfont and friends can draw into it
// before it is handed to Display.Framebuffer.
type Framebuffer [Height][Width][2]byte

var _ drivers.Displayer = (*Framebuffer)(nil)

// Set stores c at (x, y). Out of range coordinates are ignored.
func (fb *Framebuffer) Set(x, y int, c PackedColor) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	fb[y][x][0], fb[y][x][1] = c.Bytes()
}

// At returns the pixel at (x, y), or 0 when out of range.
func (fb *Framebuffer) At(x, y int) PackedColor {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	return PackedFromBytes(fb[y][x][0], fb[y][x][1])
}

// Fill sets every pixel to c.
func (fb *Framebuffer) Fill(c PackedColor) {
	hi, lo := c.Bytes()
	for y := range fb {
		for x := range fb[y] {
			fb[y][x][0] = hi
			fb[y][x][1] = lo
		}
	}
}

// Raw returns the framebuffer as a flat byte slice sharing its memory.
func (fb *Framebuffer) Raw() []byte {
	return unsafe.Slice(&fb[0][0][0], Width*Height*2)
}

func (fb *Framebuffer) Size() (x, y int16) { return Width, Height }

func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	fb.Set(int(x), int(y), ColorFrom(c).RGB565())
}

// Display is a no-op; use Display.Framebuffer to show fb.
func (fb *Framebuffer) Display() error { return nil }
