package epic_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"card10/epic"
	"card10/epic/epictest"
)

func openDisplay(t *testing.T) (*epic.Display, *epictest.Firmware) {
	t.Helper()
	fw := epictest.Install()
	d, err := epic.OpenDisplay()
	require.NoError(t, err)
	require.True(t, d.IsOpen())
	return d, fw
}

func TestOpenDisplayBusy(t *testing.T) {
	fw := epictest.Install()
	fw.OpenStatus = -epic.EBUSY

	d, err := epic.OpenDisplay()
	require.Nil(t, d)
	require.ErrorIs(t, err, epic.ErrDeviceOrResourceBusy)
}

func TestDisplayClosedRejectsEverything(t *testing.T) {
	d, fw := openDisplay(t)
	d.Close()
	require.False(t, d.IsOpen())
	fw.Reset()

	var fb epic.Framebuffer
	ops := map[string]func() error{
		"update": d.Update,
		"clear":  func() error { return d.Clear(epic.Black) },
		"print":  func() error { return d.Print("x", epic.White, epic.Black, 0, 0) },
		"pixel":  func() error { return d.Pixel(0, 0, epic.White) },
		"line":   func() error { return d.Line(0, 0, 1, 1, epic.White, epic.LineFull, 1) },
		"rect":   func() error { return d.Rect(0, 0, 1, 1, epic.White, epic.FillEmpty, 1) },
		"circ":   func() error { return d.Circ(0, 0, 1, epic.White, epic.FillEmpty, 1) },
		"fb":     func() error { return d.Framebuffer(&fb) },
	}
	for name, op := range ops {
		require.ErrorIs(t, op(), epic.ErrDisplayClosed, name)
	}
	require.Empty(t, fw.Calls())
}

func TestDisplayClosedBeatsBounds(t *testing.T) {
	d, _ := openDisplay(t)
	d.Close()
	require.Equal(t, epic.ErrDisplayClosed, d.Pixel(500, 500, epic.White))
}

func TestDisplayCloseOnce(t *testing.T) {
	d, fw := openDisplay(t)
	fw.CloseStatus = -epic.EINVAL

	d.Close()
	d.Close()
	require.Equal(t, 1, fw.Count("DispClose"))
	require.False(t, d.IsOpen())
}

func TestWithDisplayClosesOnError(t *testing.T) {
	fw := epictest.Install()
	boom := errors.New("boom")

	var held *epic.Display
	err := epic.WithDisplay(func(d *epic.Display) error {
		held = d
		require.NoError(t, d.Clear(epic.Blue))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, held.IsOpen())
	require.Equal(t, 1, fw.Count("DispClose"))
}

func TestWithDisplayClosesOnPanic(t *testing.T) {
	fw := epictest.Install()
	require.Panics(t, func() {
		_ = epic.WithDisplay(func(d *epic.Display) error { panic("draw") })
	})
	require.Equal(t, 1, fw.Count("DispClose"))
}

func TestDisplayBounds(t *testing.T) {
	d, fw := openDisplay(t)
	defer d.Close()

	require.ErrorIs(t, d.Pixel(161, 0, epic.White), epic.ErrOutsideDisplay)
	require.ErrorIs(t, d.Pixel(0, 81, epic.White), epic.ErrOutsideDisplay)
	require.ErrorIs(t, d.Line(0, 0, 161, 0, epic.White, epic.LineFull, 1), epic.ErrOutsideDisplay)
	require.ErrorIs(t, d.Rect(200, 0, 0, 0, epic.White, epic.FillFilled, 1), epic.ErrOutsideDisplay)
	require.ErrorIs(t, d.Circ(0, 90, 5, epic.White, epic.FillFilled, 1), epic.ErrOutsideDisplay)
	require.Zero(t, fw.Count("DispPixel")+fw.Count("DispLine")+fw.Count("DispRect")+fw.Count("DispCirc"))

	require.NoError(t, d.Pixel(160, 80, epic.White))
	require.NoError(t, d.Pixel(0, 0, epic.White))
	require.NoError(t, d.Circ(159, 79, 200, epic.White, epic.FillEmpty, 1))
	require.NoError(t, d.Print("far away", epic.White, epic.Black, 1000, 1000))
}

func TestDisplayForwardsArguments(t *testing.T) {
	d, fw := openDisplay(t)
	defer d.Close()

	require.NoError(t, d.Line(1, 2, 3, 4, epic.Red, epic.LineDotted, 2))
	require.Equal(t, epictest.Call{Name: "DispLine", Args: []any{
		uint16(1), uint16(2), uint16(3), uint16(4), epic.PackedColor(0xF800), epic.LineDotted, uint16(2),
	}}, fw.Last())

	require.NoError(t, d.Rect(10, 20, 30, 40, epic.Green, epic.FillFilled, 1))
	require.Equal(t, []any{
		uint16(10), uint16(20), uint16(30), uint16(40), epic.PackedColor(0x07E0), epic.FillFilled, uint16(1),
	}, fw.Last().Args)

	require.NoError(t, d.Print("hello", epic.White, epic.Blue, 5, 6))
	require.Equal(t, []any{uint16(5), uint16(6), "hello\x00", epic.PackedColor(0xFFFF), epic.PackedColor(0x001F)}, fw.Last().Args)
}

func TestDisplayFirmwareFailureIsBusy(t *testing.T) {
	d, fw := openDisplay(t)
	defer d.Close()

	fw.DrawStatus = -epic.EBUSY
	require.ErrorIs(t, d.Update(), epic.ErrDeviceOrResourceBusy)
	require.ErrorIs(t, d.Clear(epic.Black), epic.ErrDeviceOrResourceBusy)
	require.True(t, d.IsOpen())
}

func TestMustFirmwarePanicsWhenUnset(t *testing.T) {
	epic.SetFirmware(nil)
	require.PanicsWithValue(t, "epic: firmware not configured", func() { epic.MustFirmware() })
}

func TestDisplayDropCloses(t *testing.T) {
	fw := epictest.Install()

	func() {
		_, err := epic.OpenDisplay()
		require.NoError(t, err)
	}()

	collectUntil(t, func() bool { return fw.Count("DispClose") > 0 })
	require.Equal(t, 1, fw.Count("DispClose"))
}

// collectUntil runs the garbage collector until done reports true, so
// finalizers of dropped handles get a chance to run.
func collectUntil(t *testing.T, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("finalizer did not run")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	// A second pass must not release again.
	runtime.GC()
	time.Sleep(10 * time.Millisecond)
}
