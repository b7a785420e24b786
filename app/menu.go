package app

import (
	"context"
	"fmt"
	"time"

	"card10/epic"
)

const (
	menuRows   = 5
	menuRowPx  = 14
	menuPoll   = 30 * time.Millisecond
	menuMargin = 4
)

// Menu lists the payloads returned by apps. Bottom left and bottom right
// move the selection, top right starts the selected payload.
func Menu(apps func() []string) Payload {
	return func(ctx context.Context) error {
		m := &menu{apps: apps()}
		return epic.WithDisplay(func(d *epic.Display) error {
			if err := m.draw(d); err != nil {
				return err
			}
			tick := time.NewTicker(menuPoll)
			defer tick.Stop()
			prev := epic.ReadButtons(epic.AllButtons)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick.C:
				}
				now := epic.ReadButtons(epic.AllButtons)
				pressed := now &^ prev
				prev = now
				if pressed == 0 {
					continue
				}
				if pressed.Pressed(epic.ButtonRightTop) {
					if path, ok := m.selected(); ok {
						// Only returns when the payload cannot be started.
						m.status = fmt.Sprintf("%s: %v", Name(path), epic.Exec(path))
					}
				}
				m.move(pressed)
				if err := m.draw(d); err != nil {
					return err
				}
			}
		})
	}
}

type menu struct {
	apps   []string
	sel    int
	status string
}

func (m *menu) selected() (string, bool) {
	if m.sel < 0 || m.sel >= len(m.apps) {
		return "", false
	}
	return m.apps[m.sel], true
}

func (m *menu) move(pressed epic.Buttons) {
	if len(m.apps) == 0 {
		return
	}
	if pressed.Pressed(epic.ButtonLeftBottom) {
		m.sel = (m.sel + len(m.apps) - 1) % len(m.apps)
	}
	if pressed.Pressed(epic.ButtonRightBottom) {
		m.sel = (m.sel + 1) % len(m.apps)
	}
}

// window returns the index of the first visible row.
func (m *menu) window() int {
	first := m.sel - menuRows/2
	if first > len(m.apps)-menuRows {
		first = len(m.apps) - menuRows
	}
	if first < 0 {
		first = 0
	}
	return first
}

func (m *menu) draw(d *epic.Display) error {
	if err := d.Clear(epic.Black); err != nil {
		return err
	}
	if len(m.apps) == 0 {
		if err := d.Print("no apps", epic.White, epic.Black, menuMargin, menuMargin); err != nil {
			return err
		}
		return d.Update()
	}
	first := m.window()
	for row := 0; row < menuRows && first+row < len(m.apps); row++ {
		i := first + row
		fg, bg := epic.White, epic.Black
		if i == m.sel {
			fg, bg = epic.Black, epic.White
		}
		y := uint16(menuMargin + row*menuRowPx)
		if i == m.sel {
			if err := d.Rect(0, y-1, epic.Width, y+menuRowPx-2, bg, epic.FillFilled, 1); err != nil {
				return err
			}
		}
		if err := d.Print(Name(m.apps[i]), fg, bg, menuMargin, y); err != nil {
			return err
		}
	}
	if m.status != "" {
		if err := d.Print(m.status, epic.Red, epic.Black, menuMargin, epic.Height-12); err != nil {
			return err
		}
	}
	return d.Update()
}
