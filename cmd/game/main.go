package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Garsondee/Tile-World/internal/config"
	"github.com/Garsondee/Tile-World/internal/game"
	"github.com/Garsondee/Tile-World/internal/geography"
	"github.com/Garsondee/Tile-World/internal/logging"
	"github.com/Garsondee/Tile-World/internal/render"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", ".", "directory holding "+config.FileName)
	flag.Parse()

	if err := run(configDir); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, nil)

	geo, err := geography.FromConfig(cfg.Geography, log)
	if err != nil {
		return err
	}
	defer geo.Graph.Close()

	w, h := cfg.Window.Width, cfg.Window.Height
	gpu := render.NewGPU(w, h, game.FitView(cfg.View, geo.Tiles, w, h))
	session, err := game.NewSession(geo.Tiles, geo.Graph, gpu, log)
	if err != nil {
		return err
	}
	session.SetFlipY(cfg.Picking.FlipY)
	if spawn, ok := geo.SpawnTile(); ok {
		session.AddUnit(world.NewUnit(spawn, cfg.Unit.Kind, cfg.Unit.Movement))
	}

	g := game.New(session, gpu, w, h, log)
	winW, winH := g.Layout(0, 0)
	ebiten.SetWindowTitle("Tile World")
	ebiten.SetWindowSize(winW, winH)
	log.Info().Int("tiles", session.Store().Len()).Msg("starting")
	return ebiten.RunGame(g)
}
