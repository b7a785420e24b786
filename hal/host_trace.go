//go:build !tinygo

package hal

import (
	"github.com/golang/glog"

	"card10/epic"
)

// tracer logs firmware calls under their C names.
type tracer struct {
	epic.Firmware
}

func (t *tracer) DispOpen() int {
	res := t.Firmware.DispOpen()
	glog.V(2).Infof("epic_disp_open() = %d", res)
	return res
}

func (t *tracer) DispClose() int {
	res := t.Firmware.DispClose()
	glog.V(2).Infof("epic_disp_close() = %d", res)
	return res
}

func (t *tracer) DispUpdate() int {
	res := t.Firmware.DispUpdate()
	glog.V(2).Infof("epic_disp_update() = %d", res)
	return res
}

func (t *tracer) DispPrint(x, y uint16, text []byte, fg, bg epic.PackedColor) int {
	res := t.Firmware.DispPrint(x, y, text, fg, bg)
	glog.V(2).Infof("epic_disp_print(%d, %d, %q, %#04x, %#04x) = %d", x, y, text, fg, bg, res)
	return res
}

func (t *tracer) DispFramebuffer(fb *epic.Framebuffer) int {
	res := t.Firmware.DispFramebuffer(fb)
	glog.V(2).Infof("epic_disp_framebuffer() = %d", res)
	return res
}

func (t *tracer) BHI160Enable(kind epic.SensorType, cfg epic.SensorConfig) int {
	res := t.Firmware.BHI160Enable(kind, cfg)
	glog.V(2).Infof("epic_bhi160_enable_sensor(%s, %+v) = %d", kind, cfg, res)
	return res
}

func (t *tracer) BHI160Disable(kind epic.SensorType) {
	t.Firmware.BHI160Disable(kind)
	glog.V(2).Infof("epic_bhi160_disable_sensor(%s)", kind)
}

func (t *tracer) StreamRead(sd int, buf []byte) int {
	res := t.Firmware.StreamRead(sd, buf)
	if glog.V(3) {
		glog.Infof("epic_stream_read(%d, %d) = %d", sd, len(buf), res)
	}
	return res
}

func (t *tracer) Exit(code int) {
	glog.V(2).Infof("epic_exit(%d)", code)
	t.Firmware.Exit(code)
}

func (t *tracer) Exec(name []byte) int {
	glog.V(2).Infof("epic_exec(%q)", name)
	res := t.Firmware.Exec(name)
	glog.V(2).Infof("epic_exec(%q) = %d", name, res)
	return res
}
