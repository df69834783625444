package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"lifegrid/internal/app"
	"lifegrid/internal/sweep"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	ticks := flag.Int("ticks", 300, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 4, "seeds per rule set, counting up from -seed")
	deaths := flag.String("death", "0.005,0.01,0.02", "comma separated chance_of_death values")
	mitosis := flag.String("mitosis", "8,10,14", "comma separated food_for_mitosis values")
	top := flag.Int("top", 5, "results to print")
	flag.Parse()

	base, err := cfg.World()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	deathOptions, err := parseFloats(*deaths)
	if err != nil {
		log.Fatalf("-death: %v", err)
	}
	mitosisOptions, err := parseInts(*mitosis)
	if err != nil {
		log.Fatalf("-mitosis: %v", err)
	}
	seedOptions := make([]int64, 0, *seeds)
	for i := 0; i < *seeds; i++ {
		seedOptions = append(seedOptions, base.Seed+int64(i))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sets := sweep.Grid(seedOptions, deathOptions, mitosisOptions)
	fmt.Printf("Sweeping %d scenarios (%d workers, %d ticks)\n", len(sets), *workers, *ticks)

	start := time.Now()
	all := sweep.Run(ctx, base, sets, *ticks, *workers)
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		fmt.Printf("%2d) peak=%d final=%d oldest=%d extinct=%d %s\n",
			i+1, res.PeakAlive, res.FinalAlive, res.OldestEver, res.ExtinctAt, res.Scenario)
	}
}

func parseFloats(raw string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
