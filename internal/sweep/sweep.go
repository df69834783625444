// Package sweep runs many survival worlds in parallel to compare rule sets.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"lifegrid/internal/sims/survival"
)

// Scenario is one world configuration to simulate.
type Scenario struct {
	Seed          int64
	ChanceOfDeath float64
	Mitosis       int
}

func (s Scenario) String() string {
	return fmt.Sprintf("seed=%d death=%.3f mitosis=%d", s.Seed, s.ChanceOfDeath, s.Mitosis)
}

// Result summarizes a finished scenario.
type Result struct {
	Scenario   Scenario
	Ticks      int
	FinalAlive int
	PeakAlive  int
	OldestEver int
	// ExtinctAt is the first tick with no living entity, or 0.
	ExtinctAt int
}

// Grid expands every combination of the options into scenarios.
func Grid(seeds []int64, deathChances []float64, mitosis []int) []Scenario {
	var sets []Scenario
	for _, seed := range seeds {
		for _, death := range deathChances {
			for _, m := range mitosis {
				sets = append(sets, Scenario{Seed: seed, ChanceOfDeath: death, Mitosis: m})
			}
		}
	}
	return sets
}

// Run simulates every scenario for ticks ticks on workers goroutines and
// returns the results sorted by peak population, best first. Scenarios not
// started before ctx is cancelled are skipped.
func Run(ctx context.Context, base survival.Config, sets []Scenario, ticks, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan Scenario)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(ctx, base, sc, ticks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, sc := range sets {
			select {
			case jobs <- sc:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []Result
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].PeakAlive != all[j].PeakAlive {
			return all[i].PeakAlive > all[j].PeakAlive
		}
		a, b := all[i].Scenario, all[j].Scenario
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		if a.ChanceOfDeath != b.ChanceOfDeath {
			return a.ChanceOfDeath < b.ChanceOfDeath
		}
		return a.Mitosis < b.Mitosis
	})
	return all
}

func runScenario(ctx context.Context, base survival.Config, sc Scenario, ticks int) Result {
	cfg := base
	cfg.Seed = sc.Seed
	cfg.Rules.ChanceOfDeath = sc.ChanceOfDeath
	cfg.Rules.FoodForMitosis = sc.Mitosis

	monitor := survival.NewMonitor()
	world := survival.NewWithConfig(cfg, survival.WithObserver(monitor))
	world.Reset(sc.Seed)

	res := Result{Scenario: sc, PeakAlive: world.Stats().Living}
	for step := 0; step < ticks; step++ {
		if ctx.Err() != nil {
			break
		}
		stats := world.Tick()
		res.Ticks = stats.Tick
		if stats.Living > res.PeakAlive {
			res.PeakAlive = stats.Living
		}
		if stats.Living == 0 && res.ExtinctAt == 0 {
			res.ExtinctAt = stats.Tick
		}
	}
	reading := monitor.Reading()
	res.FinalAlive = reading.Living
	res.OldestEver = reading.OldestEver
	return res
}
