package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"card10/epic"
	"card10/hal"
)

// ShowPanic logs a crashed payload and puts a panic screen on the LCD.
// The display must be free; the supervisor resets the firmware first.
func ShowPanic(l hal.Logger, path string, value any, stack []byte) {
	if l != nil {
		l.WriteLineString(fmt.Sprintf("card10 panic: payload=%s panic=%v", path, value))
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}

	var fb epic.Framebuffer
	fb.Fill(epic.White.RGB565())
	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		return
	}

	lines := []string{
		"panic: " + Name(path),
		fmt.Sprintf("%v", value),
	}
	fg := color.RGBA{R: 0xC0, A: 0xFF}
	cols := int16(epic.Width) / fontWidth
	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 && y+fontHeight <= epic.Height {
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(&fb, font, 0, y+fontHeight-2, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}

	err := epic.WithDisplay(func(d *epic.Display) error {
		return d.Framebuffer(&fb)
	})
	if err != nil && l != nil {
		l.WriteLineString("card10 panic: no display: " + err.Error())
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
