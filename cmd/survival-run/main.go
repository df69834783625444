package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifegrid/internal/app"
	"lifegrid/internal/sims/survival"
	"lifegrid/internal/telemetry"
)

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 0
	cfg.Bind(flag.CommandLine)
	cfg.BindRunner(flag.CommandLine)
	flag.Parse()

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	worldCfg, err := cfg.World()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := survival.NewMonitor()
	opts := []survival.Option{survival.WithLogger(logger), survival.WithObserver(monitor)}

	var tickLog *telemetry.TickLog
	if cfg.TickLogDir != "" {
		tickLog, err = telemetry.OpenTickLog(cfg.TickLogDir, worldCfg.Seed, logger)
		if err != nil {
			log.Fatalf("tick log: %v", err)
		}
		opts = append(opts, survival.WithObserver(tickLog))
	}

	var index *telemetry.Index
	var runID int64
	if cfg.IndexPath != "" {
		index, err = telemetry.OpenIndex(cfg.IndexPath, logger)
		if err != nil {
			log.Fatalf("stats index: %v", err)
		}
		defer index.Close()
		runID, err = index.BeginRun(ctx, worldCfg)
		if err != nil {
			log.Fatalf("stats index: %v", err)
		}
		opts = append(opts, survival.WithObserver(index))
	}

	world := survival.NewWithConfig(worldCfg, opts...)
	world.Reset(worldCfg.Seed)
	logger.Info("run started",
		"seed", worldCfg.Seed,
		"width", worldCfg.Width,
		"height", worldCfg.Height,
		"living", world.Stats().Living)

	start := time.Now()
	last := run(ctx, world, cfg.Ticks, cfg.TPS)

	if tickLog != nil {
		if err := tickLog.Close(); err != nil {
			log.Fatalf("tick log: %v", err)
		}
		logger.Info("tick log written", "path", tickLog.Path())
	}

	reading := monitor.Reading()
	fmt.Printf("ticks=%d living=%d dead=%d oldest=%d oldest_ever=%d elapsed=%s\n",
		last.Tick, reading.Living, reading.Dead, reading.Oldest, reading.OldestEver,
		time.Since(start).Round(time.Millisecond))

	if index != nil {
		sum, err := index.Summary(context.Background(), runID)
		if err != nil {
			log.Fatalf("stats index: %v", err)
		}
		fmt.Printf("run=%d peak_living=%d max_oldest=%d births=%d deaths=%d consumed=%d\n",
			sum.RunID, sum.PeakLiving, sum.MaxOldest, sum.Births, sum.Deaths, sum.Consumed)
	}
}

// run advances the world until ticks have elapsed or ctx is cancelled. A
// positive tps paces the ticks; otherwise they run back to back.
func run(ctx context.Context, world *survival.World, ticks, tps int) survival.Stats {
	last := world.Stats()
	var pace <-chan time.Time
	if tps > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(tps))
		defer ticker.Stop()
		pace = ticker.C
	}
	for ticks <= 0 || last.Tick < ticks {
		if pace != nil {
			select {
			case <-ctx.Done():
				return last
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return last
		}
		last = world.Tick()
	}
	return last
}
