//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"lifegrid/internal/app"
	"lifegrid/internal/sims/survival"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindWindow(flag.CommandLine)
	flag.Parse()

	worldCfg, err := cfg.World()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	monitor := survival.NewMonitor()
	world := survival.NewWithConfig(worldCfg, survival.WithObserver(monitor))
	world.Reset(worldCfg.Seed)

	cfg.Seed = worldCfg.Seed
	game := app.New(world, cfg, monitor)
	w, h := game.WindowSize()

	ebiten.SetWindowTitle("lifegrid - " + world.Name())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
