package hal

import "card10/epic"

// toRGBA expands an RGB565 framebuffer into dst, 4 bytes per pixel.
func toRGBA(dst []byte, fb *epic.Framebuffer) {
	src := fb.Raw()
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		c := epic.PackedFromBytes(src[i], src[i+1]).Color()
		j := (i / 2) * 4
		dst[j+0] = c.R
		dst[j+1] = c.G
		dst[j+2] = c.B
		dst[j+3] = 0xFF
	}
}
