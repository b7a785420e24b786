//go:build tinygo && card10

// Binding to the Epicardium call table for l0dable payloads.
//
// Build with the card10 firmware tree on the include path, e.g.
//
//	CGO_CFLAGS=-I$FIRMWARE/epicardium tinygo build -tags card10 ...
//
// epicardium.h declares every epic_* symbol used here; the l0dable linker
// script resolves them to API call stubs.

package hal

/*
#include <stdint.h>
#include <stddef.h>
#include "epicardium.h"
*/
import "C"

import (
	"unsafe"

	"card10/epic"
)

type epicardium struct{}

var _ epic.Firmware = epicardium{}

func (epicardium) DispOpen() int   { return int(C.epic_disp_open()) }
func (epicardium) DispClose() int  { return int(C.epic_disp_close()) }
func (epicardium) DispUpdate() int { return int(C.epic_disp_update()) }

func (epicardium) DispClear(color epic.PackedColor) int {
	return int(C.epic_disp_clear(C.uint16_t(color)))
}

func (epicardium) DispPrint(x, y uint16, text []byte, fg, bg epic.PackedColor) int {
	if len(text) == 0 {
		return 0
	}
	return int(C.epic_disp_print(C.uint16_t(x), C.uint16_t(y),
		(*C.char)(unsafe.Pointer(&text[0])), C.uint16_t(fg), C.uint16_t(bg)))
}

func (epicardium) DispPixel(x, y uint16, color epic.PackedColor) int {
	return int(C.epic_disp_pixel(C.uint16_t(x), C.uint16_t(y), C.uint16_t(color)))
}

func (epicardium) DispLine(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.LineStyle, size uint16) int {
	return int(C.epic_disp_line(C.uint16_t(xs), C.uint16_t(ys), C.uint16_t(xe), C.uint16_t(ye),
		C.uint16_t(color), C.enum_disp_linestyle(style), C.uint16_t(size)))
}

func (epicardium) DispRect(xs, ys, xe, ye uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	return int(C.epic_disp_rect(C.uint16_t(xs), C.uint16_t(ys), C.uint16_t(xe), C.uint16_t(ye),
		C.uint16_t(color), C.enum_disp_fillstyle(style), C.uint16_t(size)))
}

func (epicardium) DispCirc(x, y, rad uint16, color epic.PackedColor, style epic.FillStyle, size uint16) int {
	return int(C.epic_disp_circ(C.uint16_t(x), C.uint16_t(y), C.uint16_t(rad),
		C.uint16_t(color), C.enum_disp_fillstyle(style), C.uint16_t(size)))
}

func (epicardium) DispFramebuffer(fb *epic.Framebuffer) int {
	return int(C.epic_disp_framebuffer((*C.union_disp_framebuffer)(unsafe.Pointer(fb))))
}

func (epicardium) BHI160Enable(kind epic.SensorType, cfg epic.SensorConfig) int {
	raw := C.struct_bhi160_sensor_config{
		sample_buffer_len: C.size_t(cfg.SampleBufferLen),
		sample_rate:       C.uint16_t(cfg.SampleRate),
		dynamic_range:     C.uint16_t(cfg.DynamicRange),
	}
	return int(C.epic_bhi160_enable_sensor(C.enum_bhi160_sensor_type(kind), &raw))
}

func (epicardium) BHI160Disable(kind epic.SensorType) {
	C.epic_bhi160_disable_sensor(C.enum_bhi160_sensor_type(kind))
}

func (epicardium) StreamRead(sd int, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	return int(C.epic_stream_read(C.int(sd), unsafe.Pointer(&buf[0]), C.size_t(len(buf))))
}

func (epicardium) ButtonsRead(mask epic.Buttons) epic.Buttons {
	return epic.Buttons(C.epic_buttons_read(C.uint8_t(mask)))
}

func (epicardium) UARTWrite(p []byte) {
	if len(p) == 0 {
		return
	}
	C.epic_uart_write_str((*C.char)(unsafe.Pointer(&p[0])), C.intptr_t(len(p)))
}

func (epicardium) UARTRead(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	return int(C.epic_uart_read_str((*C.char)(unsafe.Pointer(&p[0])), C.size_t(len(p))))
}

func (epicardium) LEDsSet(led int, r, g, b uint8) {
	C.epic_leds_set(C.int(led), C.uint8_t(r), C.uint8_t(g), C.uint8_t(b))
}

func (epicardium) Exit(code int) { C.epic_exit(C.int(code)) }

func (epicardium) Exec(name []byte) int {
	if len(name) == 0 {
		return -epic.ENOENT
	}
	return int(C.epic_exec((*C.char)(unsafe.Pointer(&name[0]))))
}

type device struct {
	logger uartLogger
}

// New returns the card10 board.
func New() Board { return &device{} }

func (d *device) Logger() Logger          { return d.logger }
func (d *device) Firmware() epic.Firmware { return epicardium{} }

// uartLogger writes log lines to the firmware console.
type uartLogger struct{}

func (uartLogger) WriteLineString(s string) {
	_, _ = epic.Console.WriteString(s + "\r\n")
}

func (l uartLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}
