package hal

import (
	"time"

	"card10/epic"
)

// SimConfig configures a Sim.
type SimConfig struct {
	// Now is the sensor clock. Defaults to time.Now.
	Now func() time.Time
	// SyntheticSensors generates sensor samples. Without it streams only
	// carry what PushSample queues.
	SyntheticSensors bool
	// SensorQueue bounds each sensor queue; 0 means epic.MaxBufferSize.
	SensorQueue int
	// UARTInputLimit bounds pending UART input; 0 means DefaultInputLimit.
	UARTInputLimit int
	Logger         Logger
}

// Sim is a card10 firmware simulator. It implements epic.Firmware and is
// safe for use from several goroutines.
type Sim struct {
	LCD     *LCD
	IMU     *IMU
	Buttons *ButtonState
	UART    *SerialLine
	LEDs    *LEDStrip
	Loader  *Loader

	log Logger
}

var _ epic.Firmware = (*Sim)(nil)

// NewSim returns a simulator with an unlocked, black display and no
// enabled sensors.
func NewSim(cfg SimConfig) *Sim {
	return &Sim{
		LCD:     newLCD(cfg.Logger),
		IMU:     newIMU(cfg.Now, cfg.SyntheticSensors, cfg.SensorQueue, cfg.Logger),
		Buttons: &ButtonState{},
		UART:    newSerialLine(cfg.UARTInputLimit, cfg.Logger),
		LEDs:    &LEDStrip{},
		Loader:  newLoader(cfg.Logger),
		log:     cfg.Logger,
	}
}

// Reset releases whatever a finished payload left claimed.
func (s *Sim) Reset() {
	s.LCD.Release()
	s.IMU.DisableAll()
}

func (s *Sim) DispOpen() int   { return s.LCD.open() }
func (s *Sim) DispClose() int  { return s.LCD.close() }
func (s *Sim) DispUpdate() int { return s.LCD.update() }

func (s *Sim) DispClear(color epic.PackedColor) int {
	return s.LCD.draw(func(fb *epic.Framebuffer) { fb.Fill(color) })
}

func (s *Sim) DispPrint(x, y uint16, text []byte, fg, bg epic.PackedColor) int {
	return s.LCD.print(x, y, text, fg, bg)
}

func (s *Sim) DispPixel(x, y uint16, color epic.PackedColor) int {
	return s.LCD.draw(func(fb *epic.Framebuffer) { fb.Set(int(x), int(y), color) })
}

func (s *Sim) DispLine(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.LineStyle, size uint16) int {
	return s.LCD.line(xs, ys, xe, ye, color, style, size)
}

func (s *Sim) DispRect(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	return s.LCD.rect(xs, ys, xe, ye, color, style, size)
}

func (s *Sim) DispCirc(x, y, rad uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	return s.LCD.circ(x, y, rad, color, style, size)
}

func (s *Sim) DispFramebuffer(fb *epic.Framebuffer) int {
	return s.LCD.framebuffer(fb)
}

func (s *Sim) BHI160Enable(kind epic.SensorType, cfg epic.SensorConfig) int {
	return s.IMU.enable(kind, cfg)
}

func (s *Sim) BHI160Disable(kind epic.SensorType) { s.IMU.disable(kind) }

func (s *Sim) StreamRead(sd int, buf []byte) int { return s.IMU.read(sd, buf) }

func (s *Sim) ButtonsRead(mask epic.Buttons) epic.Buttons { return s.Buttons.read(mask) }

func (s *Sim) UARTWrite(p []byte)    { s.UART.write(p) }
func (s *Sim) UARTRead(p []byte) int { return s.UART.read(p) }

func (s *Sim) LEDsSet(led int, r, g, b uint8) {
	s.LEDs.set(led, epic.Color{R: r, G: g, B: b})
}

func (s *Sim) Exit(code int) {
	logf(s.log, "exit(%d)", code)
	s.Loader.exit(code)
}

func (s *Sim) Exec(name []byte) int { return s.Loader.exec(name) }
