package survival

import (
	"testing"

	"lifegrid/internal/core"
)

// scriptedRand replays fixed draws so tests can force every random choice.
type scriptedRand struct {
	t     *testing.T
	ints  []int
	bools []bool
}

func (s *scriptedRand) IntN(n int) int {
	s.t.Helper()
	if len(s.ints) == 0 {
		s.t.Fatalf("unexpected IntN(%d): script exhausted", n)
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted value %d outside [0,%d)", v, n)
	}
	return v
}

func (s *scriptedRand) Bool() bool {
	s.t.Helper()
	if len(s.bools) == 0 {
		s.t.Fatal("unexpected Bool: script exhausted")
	}
	v := s.bools[0]
	s.bools = s.bools[1:]
	return v
}

const survive = 1000

func newTestEnv(t *testing.T, tick int, ints []int, bools []bool) *Env {
	return &Env{
		Grid:  NewGrid(60, 60),
		Tick:  tick,
		Rand:  &scriptedRand{t: t, ints: ints, bools: bools},
		Rules: DefaultRules(),
		IDs:   &IDSequence{last: 100},
	}
}

func placeEntity(t *testing.T, g *Grid, id, x, y int, c RGB) *Entity {
	t.Helper()
	e := newEntityWithColor(id, x, y, c)
	if err := g.Place(e, x, y); err != nil {
		t.Fatalf("place entity %d: %v", id, err)
	}
	return e
}

func TestMitosisNorthCreatesChild(t *testing.T) {
	env := newTestEnv(t, 2, []int{survive, 0}, nil)
	parent := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	parent.food = 10
	parent.age = 1
	parent.lastTick = 1
	parent.splitColor = RGB{150, 60, 30}

	out, err := parent.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Split || out.Direction != North {
		t.Fatalf("expected split north, got %+v", out)
	}
	child := env.Grid.Occupant(5, 4)
	if child == nil {
		t.Fatal("expected offspring at (5,4)")
	}
	if child != out.Child {
		t.Fatal("outcome child does not match grid occupant")
	}
	if child.Color() != parent.SplitColor() || child.SplitColor() != parent.SplitColor() {
		t.Fatalf("child colors %v/%v, want %v", child.Color(), child.SplitColor(), parent.SplitColor())
	}
	if parent.Food() != 0 {
		t.Fatalf("parent food = %d, want 0", parent.Food())
	}
	if parent.Color() != parent.SplitColor() {
		t.Fatalf("parent color %v, want split color %v", parent.Color(), parent.SplitColor())
	}
	if env.Grid.Occupant(5, 5) != parent {
		t.Fatal("parent should stay on its land")
	}
	if child.ID() != 101 {
		t.Fatalf("child id = %d, want 101", child.ID())
	}
	if env.Grid.Tint(5, 4) != env.Grid.Tint(5, 5) {
		t.Fatal("child land should take the origin tint")
	}
}

func TestMitosisDrawsDirectionOnlyFromFourWays(t *testing.T) {
	for draw, want := range []Direction{North, East, South, West} {
		env := newTestEnv(t, 1, []int{survive, draw}, nil)
		e := placeEntity(t, env.Grid, 1, 10, 10, RGB{90, 90, 90})
		e.food = 12

		out, err := e.Step(env)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if out.Direction != want || !out.Split {
			t.Fatalf("draw %d: got %+v, want split %v", draw, out, want)
		}
		if e.Food() != 2 {
			t.Fatalf("food after split = %d, want 2", e.Food())
		}
	}
}

func TestMitosisConsumesOccupant(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 1, 0, 0, 0}, []bool{false, false, false})
	parent := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	parent.food = 10
	prey := placeEntity(t, env.Grid, 2, 6, 5, RGB{50, 50, 50})

	out, err := parent.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Split || !out.Consumed {
		t.Fatalf("expected split with consumption, got %+v", out)
	}
	child := env.Grid.Occupant(6, 5)
	if child == nil || child == prey {
		t.Fatal("offspring should replace the prey")
	}
	if child.Food() != 3 {
		t.Fatalf("child food = %d, want 3", child.Food())
	}
	if parent.Food() != 0 {
		t.Fatalf("parent food = %d, want 0", parent.Food())
	}
}

func TestMitosisOutOfBoundsLosesSplit(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 3}, nil)
	e := placeEntity(t, env.Grid, 1, 0, 3, RGB{100, 100, 100})
	e.food = 10

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Blocked || out.Split {
		t.Fatalf("expected blocked split, got %+v", out)
	}
	if e.Food() != 0 {
		t.Fatalf("food = %d, want 0", e.Food())
	}
}

func TestDyingDuringMitosisStillSplits(t *testing.T) {
	env := newTestEnv(t, 1, []int{0, 1}, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	e.food = 10

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Died || !out.Split {
		t.Fatalf("expected death and split, got %+v", out)
	}
	if e.Alive() {
		t.Fatal("entity should be dead")
	}
	if env.Grid.Occupant(6, 5) == nil {
		t.Fatal("offspring missing east of the dead parent")
	}
	if env.Grid.Occupant(5, 5) != e {
		t.Fatal("dead parent should keep its land")
	}
}

func TestDyingWithoutMitosisDoesNothingElse(t *testing.T) {
	env := newTestEnv(t, 1, []int{0}, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	e.food = 4

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Died || out.Moved {
		t.Fatalf("expected plain death, got %+v", out)
	}
	if x, y := e.Position(); x != 5 || y != 5 {
		t.Fatalf("dead entity moved to %d,%d", x, y)
	}
	if e.Food() != 4 {
		t.Fatalf("food = %d, want 4", e.Food())
	}
}

func TestDeadEntityStepIsNoOp(t *testing.T) {
	env := newTestEnv(t, 1, nil, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	e.alive = false
	e.age = 7
	e.food = 11

	for tick := 1; tick <= 5; tick++ {
		env.Tick = tick
		out, err := e.Step(env)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if out.Acted {
			t.Fatalf("dead entity acted: %+v", out)
		}
	}
	if e.Age() != 7 || e.Food() != 11 {
		t.Fatalf("dead entity changed: age=%d food=%d", e.Age(), e.Food())
	}
	if x, y := e.Position(); x != 5 || y != 5 {
		t.Fatalf("dead entity moved to %d,%d", x, y)
	}
}

func TestStepActsOncePerTick(t *testing.T) {
	env := newTestEnv(t, 3, []int{survive, 0}, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})

	if _, err := e.Step(env); err != nil {
		t.Fatalf("step: %v", err)
	}
	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("second step: %v", err)
	}
	if out.Acted {
		t.Fatal("entity acted twice in one tick")
	}
	if e.Age() != 1 {
		t.Fatalf("age = %d, want 1", e.Age())
	}
}

func TestStayKeepsPosition(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 0}, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if out.Direction != Stay || out.Moved {
		t.Fatalf("expected stay, got %+v", out)
	}
	if e.Food() != 0 {
		t.Fatalf("food = %d, want 0", e.Food())
	}
}

func TestMoveIntoEmptyLand(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 2}, nil)
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Moved || out.Direction != East {
		t.Fatalf("expected move east, got %+v", out)
	}
	if x, y := e.Position(); x != 6 || y != 5 {
		t.Fatalf("position = %d,%d, want 6,5", x, y)
	}
	if e.Food() != 1 {
		t.Fatalf("food = %d, want 1", e.Food())
	}
	if env.Grid.Occupant(5, 5) != nil {
		t.Fatal("origin land should be empty")
	}
	if env.Grid.Occupant(6, 5) != e {
		t.Fatal("target land should hold the mover")
	}
	if env.Grid.Tint(6, 5) != landTint(5, 5) {
		t.Fatalf("target tint = %v, want origin tint %v", env.Grid.Tint(6, 5), landTint(5, 5))
	}
}

func TestMoveIntoOccupiedLandConsumes(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 3, 0, 0, 0}, []bool{false, false, false})
	e := placeEntity(t, env.Grid, 1, 5, 5, RGB{100, 100, 100})
	prey := placeEntity(t, env.Grid, 2, 5, 6, RGB{200, 20, 20})

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.Moved || !out.Consumed {
		t.Fatalf("expected move with consumption, got %+v", out)
	}
	if e.Food() != 4 {
		t.Fatalf("food = %d, want 4", e.Food())
	}
	if env.Grid.Occupant(5, 6) != e {
		t.Fatal("mover should hold the prey's land")
	}
	found := false
	env.Grid.Each(func(_, _ int, c *Cell) {
		if c.Entity == prey {
			found = true
		}
	})
	if found {
		t.Fatal("prey still referenced by the grid")
	}
}

func TestWestEdgeIsBlockedSilently(t *testing.T) {
	env := newTestEnv(t, 1, []int{survive, 4}, nil)
	e := placeEntity(t, env.Grid, 1, 0, 7, RGB{100, 100, 100})

	out, err := e.Step(env)
	if err != nil {
		t.Fatalf("out of bounds move surfaced an error: %v", err)
	}
	if !out.Blocked || out.Moved {
		t.Fatalf("expected blocked move, got %+v", out)
	}
	if x, y := e.Position(); x != 0 || y != 7 {
		t.Fatalf("position = %d,%d, want 0,7", x, y)
	}
	if e.Food() != 0 {
		t.Fatalf("food = %d, want 0", e.Food())
	}
}

func TestDeathChanceGrowsAfterGrowthPeriod(t *testing.T) {
	young := newTestEnv(t, 1, []int{15, 0}, nil)
	e := placeEntity(t, young.Grid, 1, 5, 5, RGB{100, 100, 100})
	if out, _ := e.Step(young); out.Died {
		t.Fatal("young entity should survive a 0.015 roll")
	}

	old := newTestEnv(t, 1, []int{15}, nil)
	e = placeEntity(t, old.Grid, 1, 5, 5, RGB{100, 100, 100})
	e.age = 12
	if out, _ := e.Step(old); !out.Died {
		t.Fatal("entity aged 13 should die on a 0.015 roll")
	}
}

func TestConsumeBlendsWithinBounds(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		env := &Env{Rand: core.NewRNG(seed), Rules: DefaultRules()}
		a := newEntityWithColor(1, 0, 0, RGB{100, 100, 100})
		b := newEntityWithColor(2, 1, 0, RGB{150, 80, 200})

		a.consume(b, env)

		if a.Food() != 3 {
			t.Fatalf("seed %d: food = %d, want 3", seed, a.Food())
		}
		got := a.SplitColor()
		checks := []struct {
			name      string
			value     uint8
			lo, hi    int
			preyDelta int
		}{
			{"red", got.R, 100 - 51, 100 + 51, 50},
			{"green", got.G, 100 - 21, 100 + 21, 20},
			{"blue", got.B, 100 - 101, 100 + 101, 100},
		}
		for _, c := range checks {
			lo, hi := int(clampChannel(c.lo, blendFloor, blendCeiling)), int(clampChannel(c.hi, blendFloor, blendCeiling))
			if int(c.value) < lo || int(c.value) > hi {
				t.Fatalf("seed %d: %s = %d outside [%d,%d]", seed, c.name, c.value, lo, hi)
			}
			if c.value < blendFloor || c.value > blendCeiling {
				t.Fatalf("seed %d: %s = %d outside blend range", seed, c.name, c.value)
			}
		}
		if a.Color() != (RGB{100, 100, 100}) {
			t.Fatalf("seed %d: display color changed to %v", seed, a.Color())
		}
	}
}

func TestBlendChannelUsesVariationMinimum(t *testing.T) {
	// Equal channels still get a delta of 1, so IntN(1) is the only draw.
	r := &scriptedRand{t: t, ints: []int{0}, bools: []bool{true}}
	if got := blendChannel(120, 120, 1, r); got != 120 {
		t.Fatalf("blend = %d, want 120", got)
	}
	r = &scriptedRand{t: t, ints: []int{4}, bools: []bool{true}}
	if got := blendChannel(12, 40, 1, r); got != blendFloor {
		t.Fatalf("blend = %d, want clamp to %d", got, blendFloor)
	}
	r = &scriptedRand{t: t, ints: []int{9}, bools: []bool{false}}
	if got := blendChannel(240, 200, 1, r); got != blendCeiling {
		t.Fatalf("blend = %d, want clamp to %d", got, blendCeiling)
	}
}

func TestSpawnColorDerivesFromCoordinates(t *testing.T) {
	r := &scriptedRand{t: t, ints: []int{3, 2, 1}}
	c := spawnColor(2, 3, r)
	if c != (RGB{83, 82, 81}) {
		t.Fatalf("spawn color = %v", c)
	}
	r = &scriptedRand{t: t, ints: []int{299, 199, 99}}
	c = spawnColor(200, 100, r)
	if c.R != 255 {
		t.Fatalf("red channel should clamp to 255, got %d", c.R)
	}
}
