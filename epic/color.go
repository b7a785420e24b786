package epic

import "image/color"

// Color is an 8-bit-per-channel RGB value. The zero value is black.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 255}
	Green = Color{G: 255}
	Blue  = Color{B: 255}
)

// PackedColor is a 16-bit RGB565 value: rrrrrggggggbbbbb.
type PackedColor uint16

// RGB565 packs c into the format the display consumes. The low-order bits
// of each channel are dropped.
func (c Color) RGB565() PackedColor {
	r5 := c.R >> 3
	g6 := c.G >> 2
	b5 := c.B >> 3

	lo := (g6&0x07)<<5 | b5
	hi := r5<<3 | g6>>3
	return PackedColor(uint16(hi)<<8 | uint16(lo))
}

// RGBA converts c for use with image/color based drawing code.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// ColorFrom converts any image/color value, ignoring alpha.
func ColorFrom(c color.Color) Color {
	if rgba, ok := c.(color.RGBA); ok {
		return Color{R: rgba.R, G: rgba.G, B: rgba.B}
	}
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Bytes returns p in framebuffer order: high byte first.
func (p PackedColor) Bytes() (hi, lo byte) {
	return byte(p >> 8), byte(p)
}

// PackedFromBytes is the inverse of Bytes.
func PackedFromBytes(hi, lo byte) PackedColor {
	return PackedColor(uint16(hi)<<8 | uint16(lo))
}

// Color expands p back to 8 bits per channel.
func (p PackedColor) Color() Color {
	rr := (uint16(p) >> 11) & 0x1F
	gg := (uint16(p) >> 5) & 0x3F
	bb := uint16(p) & 0x1F
	return Color{
		R: uint8((rr * 255) / 31),
		G: uint8((gg * 255) / 63),
		B: uint8((bb * 255) / 31),
	}
}
