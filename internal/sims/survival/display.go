package survival

import "image/color"

// Display codes returned by Cells.
const (
	DisplayEmpty uint8 = iota
	DisplayAlive
	DisplayDead
)

var deadColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// ageSpan is the age that maps to the hot end of the age field.
const ageSpan = 60

// Cells exposes the occupancy buffer in row-major order.
func (w *World) Cells() []uint8 { return w.display }

// Colors exposes per-land colors in row-major order: the territory tint for
// empty lands, the entity color for living ones, white for the dead.
func (w *World) Colors() []color.RGBA { return w.colors }

// AgeField exposes living entity ages normalized to [0,1] in row-major order.
func (w *World) AgeField() []float32 { return w.ages }

// Palette maps the occupancy codes of Cells to colors.
func (w *World) Palette() []color.RGBA {
	return []color.RGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 90, G: 200, B: 110, A: 255},
		deadColor,
	}
}

func (w *World) rebuildDisplay() {
	width := w.grid.Width()
	w.grid.Each(func(x, y int, c *Cell) {
		i := y*width + x
		w.ages[i] = 0
		if c.Kind != CellEntity {
			w.display[i] = DisplayEmpty
			w.colors[i] = c.Tint.RGBA()
			return
		}
		e := c.Entity
		if !e.Alive() {
			w.display[i] = DisplayDead
			w.colors[i] = deadColor
			return
		}
		w.display[i] = DisplayAlive
		w.colors[i] = e.Color().RGBA()
		age := float32(e.Age()) / ageSpan
		if age > 1 {
			age = 1
		}
		w.ages[i] = age
	})
}
