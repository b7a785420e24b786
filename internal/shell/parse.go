package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"card10/epic"
)

var colorNames = map[string]epic.Color{
	"black":   epic.Black,
	"white":   epic.White,
	"red":     epic.Red,
	"green":   {G: 255},
	"blue":    {B: 255},
	"yellow":  {R: 255, G: 255},
	"cyan":    {G: 255, B: 255},
	"magenta": {R: 255, B: 255},
}

// ParseColor accepts a color name or RRGGBB hex, with or without '#'.
func ParseColor(s string) (epic.Color, error) {
	if c, ok := colorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return epic.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return epic.Color{}, fmt.Errorf("bad color %q", s)
	}
	return epic.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ParseSensor accepts a sensor name or its first letter.
func ParseSensor(s string) (epic.SensorType, error) {
	for _, k := range []epic.SensorType{epic.Accelerometer, epic.Orientation, epic.Gyroscope} {
		name := k.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:1]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor %q", s)
}

var buttonNames = []struct {
	name string
	b    epic.Buttons
}{
	{"left", epic.ButtonLeftBottom},
	{"right", epic.ButtonRightBottom},
	{"select", epic.ButtonRightTop},
	{"reset", epic.ButtonReset},
}

func parseButtons(args []string) (epic.Buttons, error) {
	if len(args) == 0 {
		return 0, errors.New("usage: left|right|select|reset...")
	}
	var out epic.Buttons
next:
	for _, a := range args {
		for _, bn := range buttonNames {
			if strings.EqualFold(a, bn.name) {
				out |= bn.b
				continue next
			}
		}
		return 0, fmt.Errorf("unknown button %q", a)
	}
	return out, nil
}

// FormatButtons names the pressed buttons.
func FormatButtons(b epic.Buttons) string {
	var names []string
	for _, bn := range buttonNames {
		if b.Pressed(bn.b) {
			names = append(names, bn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

// parseOptions splits key=value options from positional arguments.
func parseOptions(args []string) (map[string]string, []string, error) {
	opts := make(map[string]string)
	var rest []string
	for _, a := range args {
		k, v, found := strings.Cut(a, "=")
		if !found {
			rest = append(rest, a)
			continue
		}
		if k == "" {
			return nil, nil, fmt.Errorf("bad option %q", a)
		}
		opts[k] = v
	}
	return opts, rest, nil
}

func coords(args []string) ([]uint16, error) {
	out := make([]uint16, len(args))
	for i, a := range args {
		n, err := strconv.ParseUint(a, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", a)
		}
		out[i] = uint16(n)
	}
	return out, nil
}

type shapeOptions struct {
	size  uint16
	flags map[string]bool
}

func (o shapeOptions) fill() epic.FillStyle {
	if o.flags["filled"] {
		return epic.FillFilled
	}
	return epic.FillEmpty
}

// shape parses n coordinates followed by an optional color, flags and
// size=N.
func shape(args []string, n int) ([]uint16, epic.Color, shapeOptions, error) {
	o := shapeOptions{size: 1, flags: make(map[string]bool)}
	opts, rest, err := parseOptions(args)
	if err != nil {
		return nil, epic.Color{}, o, err
	}
	if len(rest) < n {
		return nil, epic.Color{}, o, fmt.Errorf("expected %d coordinates", n)
	}
	p, err := coords(rest[:n])
	if err != nil {
		return nil, epic.Color{}, o, err
	}
	c := epic.White
	for _, a := range rest[n:] {
		switch strings.ToLower(a) {
		case "dotted", "filled":
			o.flags[strings.ToLower(a)] = true
		default:
			if c, err = ParseColor(a); err != nil {
				return nil, epic.Color{}, o, err
			}
		}
	}
	if v, ok := opts["size"]; ok {
		sz, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return nil, epic.Color{}, o, fmt.Errorf("bad size %q", v)
		}
		o.size = uint16(sz)
	}
	return p, c, o, nil
}
