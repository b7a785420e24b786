package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"card10/epic"
	"card10/hal"
)

var errNoDisplay = errors.New("display not open (disp.open)")

var commands = []command{
	{name: "disp.open", help: "claim the display", run: (*Session).dispOpen},
	{name: "disp.close", help: "release the display", run: (*Session).dispClose},
	{name: "disp.update", aliases: []string{"du"}, help: "show what was drawn", run: (*Session).dispUpdate},
	{name: "disp.clear", help: "[COLOR]", run: (*Session).dispClear},
	{name: "disp.print", help: "X Y TEXT... [fg=COLOR] [bg=COLOR]", run: (*Session).dispPrint},
	{name: "disp.pixel", help: "X Y [COLOR]", run: (*Session).dispPixel},
	{name: "disp.line", help: "XS YS XE YE [COLOR] [dotted] [size=N]", run: (*Session).dispLine},
	{name: "disp.rect", help: "XS YS XE YE [COLOR] [filled] [size=N]", run: (*Session).dispRect},
	{name: "disp.circ", help: "X Y RAD [COLOR] [filled] [size=N]", run: (*Session).dispCirc},

	{name: "sensor.enable", help: "KIND [rate=HZ] [range=N] [buf=N]", run: (*Session).sensorEnable},
	{name: "sensor.read", help: "KIND", run: (*Session).sensorRead},
	{name: "sensor.disable", help: "KIND", run: (*Session).sensorDisable},
	{name: "sensor.push", help: "KIND X Y Z [STATUS]", run: (*Session).sensorPush},

	{name: "buttons", aliases: []string{"btn"}, help: "show pressed buttons", run: (*Session).buttons},
	{name: "btn.press", help: "BUTTON...", run: (*Session).buttonPress},
	{name: "btn.release", help: "BUTTON...", run: (*Session).buttonRelease},

	{name: "uart.write", help: "TEXT...", run: (*Session).uartWrite},
	{name: "uart.feed", help: "TEXT... (queue as input)", run: (*Session).uartFeed},
	{name: "uart.read", help: "read pending input", run: (*Session).uartRead},

	{name: "leds", help: "show LED colors", run: (*Session).leds},
	{name: "leds.set", help: "LED COLOR", run: (*Session).ledsSet},

	{name: "apps", aliases: []string{"ls"}, help: "[PREFIX]", run: (*Session).apps},
	{name: "install", help: "PATH KIND", run: (*Session).install},
	{name: "exec", help: "PATH", run: (*Session).exec},
	{name: "exit", aliases: []string{"quit.payload"}, help: "CODE", run: (*Session).exit},
}

func (s *Session) display() (*epic.Display, error) {
	if s.disp == nil {
		return nil, errNoDisplay
	}
	return s.disp, nil
}

func (s *Session) dispOpen([]string) (string, error) {
	if s.disp != nil && s.disp.IsOpen() {
		return "", errors.New("display already open in this session")
	}
	d, err := epic.OpenDisplay()
	if err != nil {
		return "", err
	}
	s.disp = d
	return "OK", nil
}

func (s *Session) dispClose([]string) (string, error) {
	if s.disp == nil {
		return "", errNoDisplay
	}
	s.disp.Close()
	s.disp = nil
	return "OK", nil
}

func (s *Session) dispUpdate([]string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	return ok(d.Update())
}

func (s *Session) dispClear(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	c := epic.Black
	if len(args) > 0 {
		if c, err = ParseColor(args[0]); err != nil {
			return "", err
		}
	}
	return ok(d.Clear(c))
}

func (s *Session) dispPrint(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	opts, rest, err := parseOptions(args)
	if err != nil {
		return "", err
	}
	if len(rest) < 3 {
		return "", errors.New("usage: disp.print X Y TEXT...")
	}
	xy, err := coords(rest[:2])
	if err != nil {
		return "", err
	}
	fg, bg := epic.White, epic.Black
	if v, ok := opts["fg"]; ok {
		if fg, err = ParseColor(v); err != nil {
			return "", err
		}
	}
	if v, ok := opts["bg"]; ok {
		if bg, err = ParseColor(v); err != nil {
			return "", err
		}
	}
	return ok(d.Print(strings.Join(rest[2:], " "), fg, bg, xy[0], xy[1]))
}

func (s *Session) dispPixel(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	xy, c, _, err := shape(args, 2)
	if err != nil {
		return "", err
	}
	return ok(d.Pixel(xy[0], xy[1], c))
}

func (s *Session) dispLine(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	p, c, o, err := shape(args, 4)
	if err != nil {
		return "", err
	}
	style := epic.LineFull
	if o.flags["dotted"] {
		style = epic.LineDotted
	}
	return ok(d.Line(p[0], p[1], p[2], p[3], c, style, o.size))
}

func (s *Session) dispRect(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	p, c, o, err := shape(args, 4)
	if err != nil {
		return "", err
	}
	return ok(d.Rect(p[0], p[1], p[2], p[3], c, o.fill(), o.size))
}

func (s *Session) dispCirc(args []string) (string, error) {
	d, err := s.display()
	if err != nil {
		return "", err
	}
	p, c, o, err := shape(args, 3)
	if err != nil {
		return "", err
	}
	return ok(d.Circ(p[0], p[1], p[2], c, o.fill(), o.size))
}

func (s *Session) sensorEnable(args []string) (string, error) {
	opts, rest, err := parseOptions(args)
	if err != nil {
		return "", err
	}
	if len(rest) != 1 {
		return "", errors.New("usage: sensor.enable KIND [rate=HZ] [range=N] [buf=N]")
	}
	kind, err := ParseSensor(rest[0])
	if err != nil {
		return "", err
	}
	if _, ok := s.sensors[kind]; ok {
		return "", fmt.Errorf("%s already enabled in this session", kind)
	}
	cfg := epic.SensorConfig{SampleBufferLen: 10, SampleRate: 10, DynamicRange: 2}
	for key, dst := range map[string]*int{"buf": &cfg.SampleBufferLen} {
		if v, ok := opts[key]; ok {
			if *dst, err = strconv.Atoi(v); err != nil {
				return "", fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	for key, dst := range map[string]*uint16{"rate": &cfg.SampleRate, "range": &cfg.DynamicRange} {
		if v, ok := opts[key]; ok {
			n, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return "", fmt.Errorf("%s: %w", key, err)
			}
			*dst = uint16(n)
		}
	}
	sn, err := epic.EnableSensor(kind, cfg)
	if err != nil {
		return "", err
	}
	s.sensors[kind] = sn
	sd, _ := sn.Descriptor()
	return fmt.Sprintf("%s sd=%d", kind, sd), nil
}

func (s *Session) sensor(args []string) (*epic.Sensor, epic.SensorType, error) {
	if len(args) != 1 {
		return nil, 0, errors.New("usage: KIND")
	}
	kind, err := ParseSensor(args[0])
	if err != nil {
		return nil, 0, err
	}
	sn, ok := s.sensors[kind]
	if !ok {
		return nil, kind, fmt.Errorf("%s not enabled in this session", kind)
	}
	return sn, kind, nil
}

func (s *Session) sensorRead(args []string) (string, error) {
	sn, _, err := s.sensor(args)
	if err != nil {
		return "", err
	}
	samples, err := sn.Read()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d samples\n", len(samples))
	for _, v := range samples {
		fmt.Fprintf(&b, "x=%d y=%d z=%d status=%d\n", v.X, v.Y, v.Z, v.Status)
	}
	return b.String(), nil
}

func (s *Session) sensorDisable(args []string) (string, error) {
	sn, kind, err := s.sensor(args)
	if err != nil {
		return "", err
	}
	sn.Disable()
	delete(s.sensors, kind)
	return "OK", nil
}

func (s *Session) sensorPush(args []string) (string, error) {
	if len(args) < 4 || len(args) > 5 {
		return "", errors.New("usage: sensor.push KIND X Y Z [STATUS]")
	}
	kind, err := ParseSensor(args[0])
	if err != nil {
		return "", err
	}
	var xyz [4]int16
	for i, a := range args[1:] {
		n, err := strconv.ParseInt(a, 10, 16)
		if err != nil {
			return "", err
		}
		xyz[i] = int16(n)
	}
	v := epic.DataVector{X: xyz[0], Y: xyz[1], Z: xyz[2], Status: uint8(xyz[3])}
	if !s.sim.IMU.PushSample(kind, v) {
		return "", fmt.Errorf("%s is not streaming", kind)
	}
	return "OK", nil
}

func (s *Session) buttons([]string) (string, error) {
	return FormatButtons(epic.ReadButtons(epic.AllButtons)), nil
}

func (s *Session) buttonPress(args []string) (string, error) {
	b, err := parseButtons(args)
	if err != nil {
		return "", err
	}
	s.sim.Buttons.Press(b)
	return FormatButtons(epic.ReadButtons(epic.AllButtons)), nil
}

func (s *Session) buttonRelease(args []string) (string, error) {
	b, err := parseButtons(args)
	if err != nil {
		return "", err
	}
	s.sim.Buttons.Release(b)
	return FormatButtons(epic.ReadButtons(epic.AllButtons)), nil
}

func (s *Session) uartWrite(args []string) (string, error) {
	_, err := fmt.Fprintln(epic.Console, strings.Join(args, " "))
	return "", err
}

func (s *Session) uartFeed(args []string) (string, error) {
	line := strings.Join(args, " ") + "\n"
	n := s.sim.UART.Feed([]byte(line))
	return fmt.Sprintf("queued %d of %d bytes", n, len(line)), nil
}

func (s *Session) uartRead([]string) (string, error) {
	buf := make([]byte, hal.DefaultInputLimit)
	n, err := epic.Console.Read(buf)
	if err != nil {
		return "", err
	}
	return strconv.Quote(string(buf[:n])), nil
}

func (s *Session) leds([]string) (string, error) {
	var b strings.Builder
	for i, c := range s.sim.LEDs.Snapshot() {
		fmt.Fprintf(&b, "%2d #%02x%02x%02x\n", i, c.R, c.G, c.B)
	}
	return b.String(), nil
}

func (s *Session) ledsSet(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("usage: leds.set LED COLOR")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= epic.LEDCount {
		return "", fmt.Errorf("led must be 0..%d", epic.LEDCount-1)
	}
	c, err := ParseColor(args[1])
	if err != nil {
		return "", err
	}
	epic.SetLED(i, c)
	return "OK", nil
}

func (s *Session) apps(args []string) (string, error) {
	prefix := "/"
	if len(args) > 0 {
		prefix = args[0]
	}
	var b strings.Builder
	for _, p := range s.sim.Loader.Paths(prefix) {
		kind, _ := s.sim.Loader.Lookup(p)
		fmt.Fprintf(&b, "%-4s %s\n", kind, p)
	}
	return b.String(), nil
}

func (s *Session) install(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("usage: install PATH KIND")
	}
	kind, ok := hal.ParseFileKind(args[1])
	if !ok {
		return "", fmt.Errorf("unknown kind %q", args[1])
	}
	s.sim.Loader.Install(args[0], kind)
	return "OK", nil
}

// exec and exit end the calling goroutine on success, so they run on one
// of their own and report the hand-off the loader recorded.
func (s *Session) exec(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: exec PATH")
	}
	var err error
	handOff(func() { err = epic.Exec(args[0]) })
	if h, ok := s.sim.Loader.TakeHandoff(); ok {
		return "hand-off to " + h.Exec, nil
	}
	return "", err
}

func (s *Session) exit(args []string) (string, error) {
	code := 0
	if len(args) > 0 {
		var err error
		if code, err = strconv.Atoi(args[0]); err != nil {
			return "", err
		}
	}
	handOff(func() { epic.Exit(code) })
	h, _ := s.sim.Loader.TakeHandoff()
	return fmt.Sprintf("exit %d", h.Code), nil
}

func handOff(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	<-done
}

func ok(err error) (string, error) {
	if err != nil {
		return "", err
	}
	return "OK", nil
}
