package epic

// Buttons is a bitmask of card10's four push buttons.
type Buttons uint8

const (
	ButtonLeftBottom Buttons = 1 << iota
	ButtonRightBottom
	ButtonRightTop
	// ButtonReset is the top left button.
	ButtonReset

	AllButtons = ButtonLeftBottom | ButtonRightBottom | ButtonRightTop | ButtonReset
)

// ReadButtons returns which of the buttons in mask are pressed.
func ReadButtons(mask Buttons) Buttons {
	return MustFirmware().ButtonsRead(mask)
}

// Pressed reports whether every button in b is set.
func (b Buttons) Pressed(btn Buttons) bool {
	return btn != 0 && b&btn == btn
}
