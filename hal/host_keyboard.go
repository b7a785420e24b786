//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"

	"card10/epic"
)

var buttonKeys = []struct {
	btn  epic.Buttons
	keys []ebiten.Key
}{
	{epic.ButtonLeftBottom, []ebiten.Key{ebiten.KeyZ, ebiten.KeyArrowLeft}},
	{epic.ButtonRightBottom, []ebiten.Key{ebiten.KeyX, ebiten.KeyArrowRight}},
	{epic.ButtonRightTop, []ebiten.Key{ebiten.KeyS, ebiten.KeyEnter}},
	{epic.ButtonReset, []ebiten.Key{ebiten.KeyA, ebiten.KeyEscape}},
}

// pollButtons maps held keys to buttons. Buttons are levels, not events.
func pollButtons() epic.Buttons {
	var b epic.Buttons
	for _, m := range buttonKeys {
		for _, k := range m.keys {
			if ebiten.IsKeyPressed(k) {
				b |= m.btn
				break
			}
		}
	}
	return b
}
