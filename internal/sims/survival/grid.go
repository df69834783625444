package survival

import (
	"errors"
	"fmt"

	"lifegrid/internal/core"
)

var (
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("no land exists")
	// ErrOccupied is returned when placing onto a cell that already holds
	// another entity.
	ErrOccupied = errors.New("land is occupied")
)

// CellKind tags what a land currently holds.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellEntity
)

// Cell is a single land. Entity is set exactly when Kind is CellEntity.
type Cell struct {
	Kind   CellKind
	Entity *Entity
	Tint   RGB
}

// Grid is the fixed field of lands entities live on.
type Grid struct {
	cells *core.Grid[Cell]
}

// NewGrid allocates a w×h grid of empty lands with their initial tints.
func NewGrid(w, h int) *Grid {
	g := &Grid{cells: core.NewGrid[Cell](w, h)}
	g.reset()
	return g
}

func (g *Grid) reset() {
	g.cells.Clear()
	for y := 0; y < g.cells.H; y++ {
		for x := 0; x < g.cells.W; x++ {
			g.cells.At(x, y).Tint = landTint(x, y)
		}
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.cells.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.cells.H }

// InBounds reports whether (x, y) is a land of this grid.
func (g *Grid) InBounds(x, y int) bool { return g.cells.InBounds(x, y) }

// CellAt returns the land at (x, y).
func (g *Grid) CellAt(x, y int) (*Cell, error) {
	c := g.cells.At(x, y)
	if c == nil {
		return nil, fmt.Errorf("%w at %d, %d", ErrOutOfBounds, x, y)
	}
	return c, nil
}

// Occupant returns the entity at (x, y), or nil.
func (g *Grid) Occupant(x, y int) *Entity {
	c := g.cells.At(x, y)
	if c == nil || c.Kind != CellEntity {
		return nil
	}
	return c.Entity
}

// Tint returns the territory color of the land at (x, y).
func (g *Grid) Tint(x, y int) RGB {
	c := g.cells.At(x, y)
	if c == nil {
		return RGB{}
	}
	return c.Tint
}

// Place attaches e to the land at (x, y) and updates its position.
func (g *Grid) Place(e *Entity, x, y int) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	if c.Kind == CellEntity && c.Entity != e {
		return fmt.Errorf("%w at %d, %d by entity %d", ErrOccupied, x, y, c.Entity.ID())
	}
	c.Kind = CellEntity
	c.Entity = e
	e.x, e.y = x, y
	return nil
}

// Clear removes any occupant from the land at (x, y).
func (g *Grid) Clear(x, y int) {
	c := g.cells.At(x, y)
	if c == nil {
		return
	}
	c.Kind = CellEmpty
	c.Entity = nil
}

// move relocates e from its current land to (x, y), which must be empty.
func (g *Grid) move(e *Entity, x, y int) error {
	ox, oy := e.x, e.y
	if g.Occupant(ox, oy) == e {
		g.Clear(ox, oy)
	}
	if err := g.Place(e, x, y); err != nil {
		// Put it back so the entity never drops off the grid.
		_ = g.Place(e, ox, oy)
		return err
	}
	return nil
}

// claimTint copies the territory color of the origin land onto the target.
func (g *Grid) claimTint(fromX, fromY, toX, toY int) {
	from := g.cells.At(fromX, fromY)
	to := g.cells.At(toX, toY)
	if from == nil || to == nil {
		return
	}
	to.Tint = from.Tint
}

// Each calls fn for every land in scan order: x outer, y inner.
func (g *Grid) Each(fn func(x, y int, c *Cell)) {
	for x := 0; x < g.cells.W; x++ {
		for y := 0; y < g.cells.H; y++ {
			fn(x, y, g.cells.At(x, y))
		}
	}
}

// Population counts occupied lands by state.
func (g *Grid) Population() (living, dead int) {
	for _, c := range g.cells.Cells() {
		if c.Kind != CellEntity {
			continue
		}
		if c.Entity.Alive() {
			living++
		} else {
			dead++
		}
	}
	return living, dead
}
