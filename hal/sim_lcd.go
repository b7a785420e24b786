package hal

import (
	"bytes"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"card10/epic"
)

// LCD simulates the 160x80 display and its lock.
//
// Immediate mode drawing goes to a back buffer that Update copies to the
// visible front buffer. A framebuffer write replaces the front buffer
// directly.
type LCD struct {
	mu     sync.Mutex
	locked bool
	back   epic.Framebuffer
	front  epic.Framebuffer
	frames uint64
	font   tinyfont.Fonter
	log    Logger
}

func newLCD(log Logger) *LCD {
	return &LCD{font: &proggy.TinySZ8pt7b, log: log}
}

// Locked reports whether a payload holds the display.
func (l *LCD) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Frames returns how many times the front buffer changed.
func (l *LCD) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Snapshot copies the visible screen into dst.
func (l *LCD) Snapshot(dst *epic.Framebuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = l.front
}

// At returns a visible pixel.
func (l *LCD) At(x, y int) epic.PackedColor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.front.At(x, y)
}

// Release drops the lock as if the owning payload had closed the display.
// The supervisor uses it after a payload ends.
func (l *LCD) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = false
}

func (l *LCD) open() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		logf(l.log, "disp: open while locked")
		return -epic.EBUSY
	}
	l.locked = true
	return 0
}

func (l *LCD) close() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return -epic.EBUSY
	}
	l.locked = false
	return 0
}

// draw runs fn on the back buffer if the display is locked.
func (l *LCD) draw(fn func(fb *epic.Framebuffer)) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return -epic.EBUSY
	}
	fn(&l.back)
	return 0
}

func (l *LCD) update() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return -epic.EBUSY
	}
	l.front = l.back
	l.frames++
	return 0
}

func (l *LCD) framebuffer(fb *epic.Framebuffer) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return -epic.EBUSY
	}
	if fb == nil {
		return -epic.EINVAL
	}
	l.front = *fb
	l.back = *fb
	l.frames++
	return 0
}

func (l *LCD) print(x, y uint16, text []byte, fg, bg epic.PackedColor) int {
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	s := string(text)
	return l.draw(func(fb *epic.Framebuffer) {
		_, w := tinyfont.LineWidth(l.font, s)
		h := int16(l.font.GetYAdvance())
		fill(fb, int16(x), int16(y), int16(w), h, bg)
		tinyfont.WriteLine(fb, l.font, int16(x), int16(y)+h-2, s, fg.Color().RGBA())
	})
}

func (l *LCD) line(xs, ys, xe, ye uint16, c epic.PackedColor, style epic.LineStyle, size uint16) int {
	return l.draw(func(fb *epic.Framebuffer) {
		p := newPen(fb, size, style == epic.LineDotted)
		tinydraw.Line(p, int16(xs), int16(ys), int16(xe), int16(ye), c.Color().RGBA())
	})
}

func (l *LCD) rect(xs, ys, xe, ye uint16, c epic.PackedColor, style epic.FillStyle, size uint16) int {
	x, w := span(xs, xe)
	y, h := span(ys, ye)
	return l.draw(func(fb *epic.Framebuffer) {
		if style == epic.FillFilled {
			fill(fb, x, y, w, h, c)
			return
		}
		_ = tinydraw.Rectangle(newPen(fb, size, false), x, y, w, h, c.Color().RGBA())
	})
}

func (l *LCD) circ(x, y, rad uint16, c epic.PackedColor, style epic.FillStyle, size uint16) int {
	return l.draw(func(fb *epic.Framebuffer) {
		if style == epic.FillFilled {
			tinydraw.FilledCircle(newPen(fb, 1, false), int16(x), int16(y), int16(rad), c.Color().RGBA())
			return
		}
		tinydraw.Circle(newPen(fb, size, false), int16(x), int16(y), int16(rad), c.Color().RGBA())
	})
}

func span(a, b uint16) (start, length int16) {
	if a > b {
		a, b = b, a
	}
	return int16(a), int16(b-a) + 1
}

func fill(fb *epic.Framebuffer, x, y, w, h int16, c epic.PackedColor) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			fb.Set(int(i), int(j), c)
		}
	}
}

// pen adapts a framebuffer to the stroke size and line style of the
// firmware's drawing calls. tinydraw plots pixels in path order, so
// skipping every other one gives a dotted line.
type pen struct {
	fb     *epic.Framebuffer
	size   int16
	dotted bool
	n      int
}

var _ drivers.Displayer = (*pen)(nil)

func newPen(fb *epic.Framebuffer, size uint16, dotted bool) *pen {
	s := int16(size)
	if s < 1 {
		s = 1
	}
	if s > 8 {
		s = 8
	}
	return &pen{fb: fb, size: s, dotted: dotted}
}

func (p *pen) Size() (x, y int16) { return p.fb.Size() }

func (p *pen) SetPixel(x, y int16, c color.RGBA) {
	p.n++
	if p.dotted && p.n%2 == 0 {
		return
	}
	for dy := int16(0); dy < p.size; dy++ {
		for dx := int16(0); dx < p.size; dx++ {
			p.fb.SetPixel(x+dx, y+dy, c)
		}
	}
}

func (p *pen) Display() error { return nil }
