//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image/color"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"card10/epic"
	"card10/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	// Scale is the LCD zoom factor.
	Scale int
	// ConsoleRows is the height of the UART console in pixels at scale 1.
	ConsoleRows int
}

const ledBarHeight = 12

// RunWindow opens a window showing the LCD, the LEDs and the UART console
// and forwards the keyboard to the buttons. run is started on its own
// goroutine with a context that ends when the window closes. RunWindow
// blocks until the window closes or run returns.
func RunWindow(ctx context.Context, h *Host, cfg WindowConfig, run func(ctx context.Context) error) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.ConsoleRows <= 0 {
		cfg.ConsoleRows = 60
	}

	g := &hostGame{
		h:     h,
		scale: cfg.Scale,
		con:   newConsole(epic.Width*cfg.Scale, cfg.ConsoleRows*cfg.Scale/2),
		done:  make(chan error, 1),
	}
	h.Sim.UART.AddSink(g.con)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { g.done <- run(ctx) }()

	w, ht := g.Layout(0, 0)
	ebiten.SetWindowTitle(buildinfo.Title())
	ebiten.SetWindowSize(w, ht)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return g.err
	}
	return err
}

type hostGame struct {
	h     *Host
	scale int
	con   *console
	done  chan error
	err   error

	fb     epic.Framebuffer
	lcdPix []byte
	lcdImg *ebiten.Image
	conPix []byte
	conImg *ebiten.Image
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		if err != nil {
			glog.Errorf("payloads: %v", err)
		}
		g.err = err
		return ebiten.Termination
	default:
	}
	g.h.Sim.Buttons.Set(pollButtons())
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.lcdImg == nil {
		g.lcdPix = make([]byte, epic.Width*epic.Height*4)
		g.lcdImg = ebiten.NewImage(epic.Width, epic.Height)
		w, h := g.con.Size()
		g.conPix = make([]byte, int(w)*int(h)*4)
		g.conImg = ebiten.NewImage(int(w), int(h))
	}

	leds := g.h.Sim.LEDs.Snapshot()
	cell := float32(epic.Width*g.scale) / epic.LEDCount
	for i, c := range leds {
		vector.DrawFilledRect(screen, float32(i)*cell+1, 1, cell-2, ledBarHeight-2, c.RGBA(), false)
	}

	g.h.Sim.LCD.Snapshot(&g.fb)
	toRGBA(g.lcdPix, &g.fb)
	g.lcdImg.WritePixels(g.lcdPix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	op.GeoM.Translate(0, ledBarHeight)
	screen.DrawImage(g.lcdImg, op)

	g.con.snapshot(g.conPix)
	g.conImg.WritePixels(g.conPix)
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(ledBarHeight+epic.Height*g.scale))
	screen.DrawImage(g.conImg, op)

	if g.h.Sim.LCD.Locked() {
		vector.DrawFilledRect(screen, 0, ledBarHeight, 3, 3, color.RGBA{G: 0xFF, A: 0xFF}, false)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	_, conH := g.con.Size()
	return epic.Width * g.scale, ledBarHeight + epic.Height*g.scale + int(conH)
}
