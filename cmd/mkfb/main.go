//go:build !tinygo

// Command mkfb converts images to raw card10 framebuffers and back.
//
// A framebuffer file holds 80 rows of 160 RGB565 pixels, high byte first,
// the layout epic.Display.Framebuffer sends to the LCD.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"card10/epic"
)

const frameSize = epic.Width * epic.Height * 2

func main() {
	var inPath, outPath string
	var dump bool
	flag.StringVar(&inPath, "in", "", "Input image (PNG, GIF or JPEG), or framebuffer with -dump.")
	flag.StringVar(&outPath, "out", "", "Output framebuffer, or PNG with -dump.")
	flag.BoolVar(&dump, "dump", false, "Convert a framebuffer file to PNG.")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	var err error
	if dump {
		err = runDump(inPath, outPath)
	} else {
		err = run(inPath, outPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open image %q: %w", inPath, err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image %q: %w", inPath, err)
	}
	fb := toFramebuffer(img)
	if err := os.WriteFile(outPath, fb.Raw(), 0o644); err != nil {
		return fmt.Errorf("write framebuffer %q: %w", outPath, err)
	}
	b := img.Bounds()
	fmt.Printf("%s: %s %dx%d -> %s (%d bytes)\n", inPath, format, b.Dx(), b.Dy(), outPath, frameSize)
	return nil
}

func runDump(inPath, outPath string) error {
	fb, err := readFramebuffer(inPath)
	if err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png %q: %w", outPath, err)
	}
	if err := png.Encode(out, toImage(fb)); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode png %q: %w", outPath, err)
	}
	return out.Close()
}

func readFramebuffer(path string) (*epic.Framebuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var fb epic.Framebuffer
	if _, err := io.ReadFull(f, fb.Raw()); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("framebuffer %q: shorter than %d bytes", path, frameSize)
		}
		return nil, fmt.Errorf("read framebuffer %q: %w", path, err)
	}
	return &fb, nil
}

// toFramebuffer scales img to the display with nearest-neighbour sampling,
// keeping the aspect ratio and centering it on black.
func toFramebuffer(img image.Image) *epic.Framebuffer {
	var fb epic.Framebuffer
	b := img.Bounds()
	if b.Empty() {
		return &fb
	}
	w, h := epic.Width, epic.Height
	if b.Dx()*epic.Height > b.Dy()*epic.Width {
		h = b.Dy() * epic.Width / b.Dx()
	} else {
		w = b.Dx() * epic.Height / b.Dy()
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	ox, oy := (epic.Width-w)/2, (epic.Height-h)/2
	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*b.Dy()/h
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			fb.Set(ox+x, oy+y, epic.ColorFrom(img.At(sx, sy)).RGB565())
		}
	}
	return &fb
}

func toImage(fb *epic.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, epic.Width, epic.Height))
	for y := 0; y < epic.Height; y++ {
		for x := 0; x < epic.Width; x++ {
			c := fb.At(x, y).Color()
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return img
}
