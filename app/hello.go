package app

import (
	"context"
	"fmt"
	"time"

	"card10/epic"
)

// Hello shows a greeting, echoes UART input on the display and lights
// the LEDs. The top right button ends it.
func Hello(ctx context.Context) error {
	fmt.Fprintln(epic.Console, "hello from card10")
	for i := 0; i < epic.LEDCount; i++ {
		epic.SetLED(i, wheel(uint8(i*255/epic.LEDCount)))
	}
	defer func() {
		for i := 0; i < epic.LEDCount; i++ {
			epic.SetLED(i, epic.Black)
		}
	}()

	return epic.WithDisplay(func(d *epic.Display) error {
		if err := d.Clear(epic.Black); err != nil {
			return err
		}
		if err := d.Print("Hello card10!", epic.White, epic.Black, 8, 8); err != nil {
			return err
		}
		if err := d.Update(); err != nil {
			return err
		}

		var line []byte
		buf := make([]byte, 32)
		held := epic.ReadButtons(epic.ButtonRightTop)
		tick := time.NewTicker(50 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}

			// The button that started us may still be held.
			now := epic.ReadButtons(epic.ButtonRightTop)
			if now&^held != 0 {
				return nil
			}
			held = now

			n, err := epic.Console.Read(buf)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			line = appendLine(line, buf[:n], 24)
			if err := d.Rect(0, 40, epic.Width, 60, epic.Black, epic.FillFilled, 1); err != nil {
				return err
			}
			if err := d.Print(string(line), epic.Green, epic.Black, 8, 44); err != nil {
				return err
			}
			if err := d.Update(); err != nil {
				return err
			}
		}
	})
}

// appendLine keeps the printable tail of what was typed, at most max
// bytes. A newline starts over.
func appendLine(line, in []byte, max int) []byte {
	for _, b := range in {
		switch {
		case b == '\n' || b == '\r':
			line = line[:0]
		case b >= 0x20 && b < 0x7F:
			line = append(line, b)
		}
	}
	if len(line) > max {
		line = append(line[:0], line[len(line)-max:]...)
	}
	return line
}

// wheel maps 0..255 onto a red, green, blue color circle.
func wheel(pos uint8) epic.Color {
	switch {
	case pos < 85:
		return epic.Color{R: 255 - pos*3, G: pos * 3}
	case pos < 170:
		pos -= 85
		return epic.Color{G: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return epic.Color{R: pos * 3, B: 255 - pos*3}
	}
}
