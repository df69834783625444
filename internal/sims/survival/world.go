package survival

import (
	"fmt"
	"image/color"
	"log/slog"

	"lifegrid/internal/core"
)

// World owns the grid and advances it one tick at a time.
type World struct {
	cfg Config

	grid *Grid
	rng  Rand
	seed func(int64)
	ids  IDSequence
	tick int
	last Stats

	observers []PopulationObserver
	log       *slog.Logger

	display []uint8
	colors  []color.RGBA
	ages    []float32
}

// Option customizes a World at construction.
type Option func(*World)

// WithLogger routes step faults to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.log = logger
		}
	}
}

// WithObserver adds an observer that is notified after every tick.
func WithObserver(o PopulationObserver) Option {
	return func(w *World) {
		if o != nil {
			w.observers = append(w.observers, o)
		}
	}
}

// WithRand replaces the seeded RNG. Reset no longer reseeds it.
func WithRand(r Rand) Option {
	return func(w *World) {
		if r != nil {
			w.rng = r
			w.seed = nil
		}
	}
}

// New returns a survival world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from the provided options. The
// grid starts empty until Reset is called.
func NewWithConfig(cfg Config, opts ...Option) *World {
	rng := core.NewRNG(cfg.Seed)
	w := &World{
		cfg:  cfg,
		grid: NewGrid(cfg.Width, cfg.Height),
		rng:  rng,
		seed: rng.Seed,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	total := w.grid.Width() * w.grid.Height()
	w.display = make([]uint8, total)
	w.colors = make([]color.RGBA, total)
	w.ages = make([]float32, total)
	w.rebuildDisplay()
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "survival" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.Width(), H: w.grid.Height()} }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Grid exposes the lands for inspection.
func (w *World) Grid() *Grid { return w.grid }

// CurrentTick returns the number of ticks run since the last Reset.
func (w *World) CurrentTick() int { return w.tick }

// Stats returns the aggregate of the most recent tick.
func (w *World) Stats() Stats { return w.last }

// AddObserver registers o for future ticks.
func (w *World) AddObserver(o PopulationObserver) {
	if o != nil {
		w.observers = append(w.observers, o)
	}
}

// Reset repopulates the grid. A zero seed falls back to the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	if w.seed != nil {
		w.seed(effective)
	}
	w.grid.reset()
	w.ids = IDSequence{}
	w.tick = 0

	// Spawn draws use a 1/10000 resolution.
	threshold := int(w.cfg.SpawnChance*10000 + 0.5)
	spawned := 0
	w.grid.Each(func(x, y int, c *Cell) {
		if w.rng.IntN(10000) >= threshold {
			return
		}
		e := NewEntity(w.ids.Next(), x, y, w.rng)
		c.Kind = CellEntity
		c.Entity = e
		spawned++
	})

	w.last = Stats{Living: spawned, Births: spawned}
	w.rebuildDisplay()
	w.publish(w.last)
}

// Step advances the world by one tick.
func (w *World) Step() { w.Tick() }

// Tick advances the world by one tick and returns its aggregate counters.
// Observers are notified only after the whole grid has been scanned.
func (w *World) Tick() Stats {
	w.tick++
	env := &Env{
		Grid:  w.grid,
		Tick:  w.tick,
		Rand:  w.rng,
		Rules: w.cfg.Rules,
		IDs:   &w.ids,
	}
	stats := Stats{Tick: w.tick}

	// Lands are scanned x outer, y inner.
	for x := 0; x < w.grid.Width(); x++ {
		for y := 0; y < w.grid.Height(); y++ {
			e := w.grid.Occupant(x, y)
			if e == nil {
				continue
			}
			if !e.Alive() {
				stats.Dead++
				continue
			}
			stats.Living++
			if e.Age() > stats.OldestLiving {
				stats.OldestLiving = e.Age()
			}
			out := w.stepEntity(e, env)
			if out.Died {
				stats.Deaths++
			}
			if out.Split {
				stats.Births++
			}
			if out.Consumed {
				stats.Consumed++
			}
		}
	}

	w.last = stats
	w.rebuildDisplay()
	w.publish(stats)
	return stats
}

// stepEntity runs one entity step, containing any fault to that entity.
func (w *World) stepEntity(e *Entity, env *Env) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("entity step panicked",
				"tick", env.Tick,
				"entity", e.ID(),
				"panic", fmt.Sprint(r))
		}
	}()
	out, err := e.Step(env)
	if err != nil {
		x, y := e.Position()
		w.log.Error("entity step failed",
			"tick", env.Tick,
			"entity", e.ID(),
			"x", x,
			"y", y,
			"err", err)
	}
	return out
}

func (w *World) publish(s Stats) {
	for _, o := range w.observers {
		o.ReportPopulation(s.Living, s.Dead)
		o.RecordOldestLiving(s.OldestLiving)
		if so, ok := o.(StatsObserver); ok {
			so.ObserveTick(s)
		}
	}
}
