package epic

// LED indices: 0 to 10 are the top row, 11 to 14 the ambient LEDs.
const (
	LEDCount        = 15
	FirstAmbientLED = 11
)

// SetLED sets one RGB LED. Out of range indices are ignored.
func SetLED(led int, c Color) {
	if led < 0 || led >= LEDCount {
		return
	}
	MustFirmware().LEDsSet(led, c.R, c.G, c.B)
}
