//go:build !tinygo

package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"card10/epic"
)

func TestToFramebufferExactSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, epic.Width, epic.Height))
	img.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	img.Set(159, 79, color.RGBA{B: 0xFF, A: 0xFF})

	fb := toFramebuffer(img)
	require.Equal(t, epic.Red.RGB565(), fb.At(0, 0))
	require.Equal(t, epic.PackedColor(0x001F), fb.At(159, 79))
	require.Equal(t, epic.PackedColor(0), fb.At(80, 40))
}

func TestToFramebufferLetterbox(t *testing.T) {
	// A white square fills the middle 80x80 and leaves black bars.
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	fb := toFramebuffer(img)
	require.Equal(t, epic.PackedColor(0), fb.At(39, 40))
	require.Equal(t, epic.PackedColor(0xFFFF), fb.At(40, 40))
	require.Equal(t, epic.PackedColor(0xFFFF), fb.At(119, 79))
	require.Equal(t, epic.PackedColor(0), fb.At(120, 0))
}

func TestRunAndDump(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	img := image.NewRGBA(image.Rect(0, 0, epic.Width, epic.Height))
	img.Set(10, 20, color.RGBA{G: 0xFF, A: 0xFF})
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	raw := filepath.Join(dir, "out.fb")
	require.NoError(t, run(src, raw))
	b, err := os.ReadFile(raw)
	require.NoError(t, err)
	require.Len(t, b, frameSize)
	off := (20*epic.Width + 10) * 2
	require.Equal(t, []byte{0x07, 0xE0}, b[off:off+2])

	back := filepath.Join(dir, "back.png")
	require.NoError(t, runDump(raw, back))
	f, err = os.Open(back)
	require.NoError(t, err)
	defer f.Close()
	out, err := png.Decode(f)
	require.NoError(t, err)
	r, g, bl, _ := out.At(10, 20).RGBA()
	require.Equal(t, [3]uint32{0, 0xFFFF, 0}, [3]uint32{r, g, bl})
}

func TestReadFramebufferShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.fb")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))
	_, err := readFramebuffer(path)
	require.ErrorContains(t, err, "shorter than")
}
