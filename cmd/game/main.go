package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Squad-Arena/internal/game"
	"github.com/Garsondee/Squad-Arena/internal/viewer"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := game.DefaultConfig()
	flag.Int64Var(&cfg.Seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&cfg.NumChoices, "choices", cfg.NumChoices, "reward cards offered per victory")
	verbose := flag.Bool("verbose", false, "record per-tick log entries")
	flag.Parse()

	if cfg.NumChoices < 1 || cfg.NumChoices > 5 {
		log.Fatalf("-choices must be in 1..5, got %d", cfg.NumChoices)
	}

	s := game.NewSession(cfg, nil, game.NewSimLog(*verbose))

	ebiten.SetWindowTitle("Squad Arena")
	ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
	ebiten.SetTPS(cfg.TicksPerSecond)
	if err := ebiten.RunGame(viewer.New(s)); err != nil {
		log.Fatal(err)
	}
}
