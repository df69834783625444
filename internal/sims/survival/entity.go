package survival

import (
	"errors"
	"fmt"
)

// Direction is the action an entity picks for a step.
type Direction uint8

const (
	Stay Direction = iota
	North
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "stay"
	}
}

// apply returns the coordinates one step from (x, y) in direction d.
func (d Direction) apply(x, y int) (int, int) {
	switch d {
	case North:
		return x, y - 1
	case East:
		return x + 1, y
	case South:
		return x, y + 1
	case West:
		return x - 1, y
	default:
		return x, y
	}
}

// IDSequence hands out entity identifiers, starting at 1.
type IDSequence struct {
	last int
}

// Next returns a fresh identifier.
func (s *IDSequence) Next() int {
	s.last++
	return s.last
}

// Entity is a single agent on the grid.
type Entity struct {
	id    int
	age   int
	alive bool
	food  int
	x, y  int

	color      RGB
	splitColor RGB

	// lastTick is the tick the entity last acted in; it acts at most once
	// per tick even when the scan reaches it again after a move.
	lastTick int
}

// NewEntity creates a living entity at (x, y) whose color is derived from
// its coordinates. It is not placed on any grid.
func NewEntity(id, x, y int, r Rand) *Entity {
	return newEntityWithColor(id, x, y, spawnColor(x, y, r))
}

func newEntityWithColor(id, x, y int, c RGB) *Entity {
	return &Entity{
		id:         id,
		alive:      true,
		x:          x,
		y:          y,
		color:      c,
		splitColor: c,
	}
}

// ID returns the entity's unique identifier.
func (e *Entity) ID() int { return e.id }

// Age returns the number of ticks the entity has acted in.
func (e *Entity) Age() int { return e.age }

// Alive reports whether the entity has not died yet.
func (e *Entity) Alive() bool { return e.alive }

// Food returns the entity's food counter.
func (e *Entity) Food() int { return e.food }

// Position returns the entity's grid coordinates.
func (e *Entity) Position() (int, int) { return e.x, e.y }

// Color returns the display color.
func (e *Entity) Color() RGB { return e.color }

// SplitColor returns the genetic color inherited by offspring.
func (e *Entity) SplitColor() RGB { return e.splitColor }

func (e *Entity) String() string {
	state := "alive"
	if !e.alive {
		state = "dead"
	}
	return fmt.Sprintf("entity %d (%s) at %d,%d age=%d food=%d", e.id, state, e.x, e.y, e.age, e.food)
}

// Env is everything an entity needs while stepping.
type Env struct {
	Grid  *Grid
	Tick  int
	Rand  Rand
	Rules Rules
	IDs   *IDSequence
}

// Outcome summarizes what a single step did.
type Outcome struct {
	Acted     bool
	Died      bool
	Split     bool
	Moved     bool
	Consumed  bool
	Blocked   bool
	Direction Direction
	Child     *Entity
}

// Step advances the entity by one tick. Dead entities, and entities that
// already acted in env.Tick, are left untouched.
func (e *Entity) Step(env *Env) (Outcome, error) {
	var out Outcome
	if !e.alive || e.lastTick >= env.Tick {
		return out, nil
	}
	out.Acted = true
	e.lastTick = env.Tick
	e.age++

	rules := env.Rules
	mitosis := false
	if e.food >= rules.FoodForMitosis {
		e.food -= rules.FoodForMitosis
		mitosis = true
	}

	if e.rollDeath(env) {
		e.alive = false
		out.Died = true
		// Only a split in progress outlives the death roll.
		if !mitosis {
			return out, nil
		}
	}

	if mitosis {
		out.Direction = Direction(env.Rand.IntN(4) + 1)
	} else {
		out.Direction = Direction(env.Rand.IntN(5))
	}
	if out.Direction == Stay {
		return out, nil
	}

	tx, ty := out.Direction.apply(e.x, e.y)
	target, err := env.Grid.CellAt(tx, ty)
	if errors.Is(err, ErrOutOfBounds) {
		out.Blocked = true
		return out, nil
	}
	if err != nil {
		return out, err
	}

	if mitosis {
		return out, e.split(env, target, tx, ty, &out)
	}
	return out, e.advance(env, target, tx, ty, &out)
}

func (e *Entity) rollDeath(env *Env) bool {
	rules := env.Rules
	chance := rules.ChanceOfDeath
	if e.age > rules.PeriodOfGrowth {
		chance += rules.AgingDeathRate * float64(e.age-rules.PeriodOfGrowth)
	}
	return float64(env.Rand.IntN(1001))/1000 <= chance
}

// split places a child carrying the entity's genetic color on the target
// land, eating whatever lived there.
func (e *Entity) split(env *Env, target *Cell, tx, ty int, out *Outcome) error {
	child := newEntityWithColor(env.IDs.Next(), tx, ty, e.splitColor)
	child.lastTick = env.Tick
	e.color = e.splitColor

	if target.Kind == CellEntity {
		child.consume(target.Entity, env)
		env.Grid.Clear(tx, ty)
		out.Consumed = true
	}
	if err := env.Grid.Place(child, tx, ty); err != nil {
		return fmt.Errorf("place offspring of %d: %w", e.id, err)
	}
	env.Grid.claimTint(e.x, e.y, tx, ty)
	out.Split = true
	out.Child = child
	return nil
}

// advance moves the entity onto the target land, eating whatever lived there.
func (e *Entity) advance(env *Env, target *Cell, tx, ty int, out *Outcome) error {
	e.food += env.Rules.FoodPerTerritory
	if target.Kind == CellEntity && target.Entity != e {
		e.consume(target.Entity, env)
		env.Grid.Clear(tx, ty)
		out.Consumed = true
	}
	ox, oy := e.x, e.y
	if err := env.Grid.move(e, tx, ty); err != nil {
		return fmt.Errorf("move entity %d: %w", e.id, err)
	}
	env.Grid.claimTint(ox, oy, tx, ty)
	out.Moved = true
	return nil
}

// consume feeds on prey and folds its color into the genetic color. Removing
// prey from the grid is up to the caller.
func (e *Entity) consume(prey *Entity, env *Env) {
	e.food += env.Rules.FoodPerConsumption
	e.splitColor = blendGenes(e.splitColor, prey.color, env.Rules.VariationRangeMinimum, env.Rand)
}
