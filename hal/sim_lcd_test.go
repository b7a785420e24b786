package hal

import (
	"testing"

	"card10/epic"
)

func openSim(t *testing.T) *Sim {
	t.Helper()
	s := NewSim(SimConfig{})
	if res := s.DispOpen(); res != 0 {
		t.Fatalf("DispOpen: %d", res)
	}
	return s
}

func TestLCDLock(t *testing.T) {
	s := NewSim(SimConfig{})

	if res := s.DispClear(epic.White.RGB565()); res != -epic.EBUSY {
		t.Fatalf("expected -EBUSY drawing unlocked, got %d", res)
	}
	if res := s.DispOpen(); res != 0 {
		t.Fatalf("expected open to succeed, got %d", res)
	}
	if res := s.DispOpen(); res != -epic.EBUSY {
		t.Fatalf("expected second open to fail, got %d", res)
	}
	if res := s.DispClose(); res != 0 {
		t.Fatalf("expected close to succeed, got %d", res)
	}
	if res := s.DispClose(); res != -epic.EBUSY {
		t.Fatalf("expected second close to fail, got %d", res)
	}
}

func TestLCDUpdateShowsBackBuffer(t *testing.T) {
	s := openSim(t)
	red := epic.Red.RGB565()

	s.DispPixel(3, 4, red)
	if got := s.LCD.At(3, 4); got != 0 {
		t.Fatalf("pixel visible before update: %#04x", got)
	}
	s.DispUpdate()
	if got := s.LCD.At(3, 4); got != red {
		t.Fatalf("expected red after update, got %#04x", got)
	}
	if s.LCD.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", s.LCD.Frames())
	}
}

func TestLCDClipsOffscreen(t *testing.T) {
	s := openSim(t)
	if res := s.DispPixel(epic.Width, epic.Height, epic.White.RGB565()); res != 0 {
		t.Fatalf("expected edge pixel to be accepted, got %d", res)
	}
	if res := s.DispCirc(150, 70, 40, epic.White.RGB565(), epic.FillFilled, 1); res != 0 {
		t.Fatalf("circle: %d", res)
	}
}

func TestLCDRect(t *testing.T) {
	s := openSim(t)
	c := epic.Green.RGB565()

	s.DispRect(30, 20, 10, 10, c, epic.FillFilled, 1)
	s.DispUpdate()
	for _, p := range [][2]int{{10, 10}, {30, 20}, {20, 15}} {
		if got := s.LCD.At(p[0], p[1]); got != c {
			t.Fatalf("filled rect: pixel %v = %#04x", p, got)
		}
	}
	if got := s.LCD.At(31, 20); got != 0 {
		t.Fatalf("filled rect leaked to x=31")
	}

	s.DispClear(0)
	s.DispRect(10, 10, 30, 20, c, epic.FillEmpty, 1)
	s.DispUpdate()
	if got := s.LCD.At(10, 15); got != c {
		t.Fatalf("outline missing left edge")
	}
	if got := s.LCD.At(20, 15); got != 0 {
		t.Fatalf("outline filled the inside")
	}
}

func TestLCDDottedLine(t *testing.T) {
	s := openSim(t)
	c := epic.White.RGB565()

	s.DispLine(0, 5, 9, 5, c, epic.LineDotted, 1)
	s.DispUpdate()
	lit := 0
	for x := 0; x < 10; x++ {
		if s.LCD.At(x, 5) == c {
			lit++
		}
	}
	if lit != 5 {
		t.Fatalf("expected every other pixel lit, got %d of 10", lit)
	}

	s.DispClear(0)
	s.DispLine(0, 5, 9, 5, c, epic.LineFull, 2)
	s.DispUpdate()
	if s.LCD.At(9, 6) != c || s.LCD.At(0, 5) != c {
		t.Fatal("expected a 2 pixel wide line")
	}
}

func TestLCDPrintFillsBackground(t *testing.T) {
	s := openSim(t)
	bg := epic.Blue.RGB565()

	s.DispPrint(0, 0, []byte("Hi\x00garbage"), epic.White.RGB565(), bg)
	s.DispUpdate()
	if got := s.LCD.At(0, 0); got != bg {
		t.Fatalf("expected background at origin, got %#04x", got)
	}
	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if s.LCD.At(x, y) == epic.White.RGB565() {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected glyph pixels")
	}
	if got := s.LCD.At(60, 5); got == bg {
		t.Fatal("text after NUL was drawn")
	}
}

func TestLCDFramebufferIsImmediate(t *testing.T) {
	s := openSim(t)
	var fb epic.Framebuffer
	fb.Fill(epic.Red.RGB565())

	if res := s.DispFramebuffer(&fb); res != 0 {
		t.Fatalf("framebuffer: %d", res)
	}
	if got := s.LCD.At(80, 40); got != epic.Red.RGB565() {
		t.Fatalf("expected framebuffer on screen, got %#04x", got)
	}
	if res := s.DispFramebuffer(nil); res != -epic.EINVAL {
		t.Fatalf("expected -EINVAL for nil framebuffer, got %d", res)
	}
}

func TestToRGBA(t *testing.T) {
	var fb epic.Framebuffer
	fb.Set(1, 0, epic.Red.RGB565())
	dst := make([]byte, epic.Width*epic.Height*4)
	toRGBA(dst, &fb)
	if dst[3] != 0xFF || dst[0] != 0 {
		t.Fatalf("pixel 0: %v", dst[:4])
	}
	if dst[4] != 0xFF || dst[5] != 0 || dst[6] != 0 {
		t.Fatalf("pixel 1: %v", dst[4:8])
	}
}
