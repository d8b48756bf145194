package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/audio/beepaudio"
	"github.com/tomz197/napguard/internal/config"
	"github.com/tomz197/napguard/internal/desktop"
	"github.com/tomz197/napguard/internal/game"
)

func main() {
	logger := config.NewLogger(os.Stderr, "desktop")

	table, err := config.LoadTable()
	if err != nil {
		logger.Fatal("failed to load annoyance types", "err", err)
	}

	settings, err := config.OpenSettings(config.AppName, logger)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}
	muted := !config.GetEnvBool(config.EnvSound, settings.Settings().SoundEnabled)

	engine := beepaudio.NewEngine(logger)
	defer engine.Close()

	session := game.NewSession(game.Options{
		Audio:  audio.NewLogged(engine, logger),
		Table:  table,
		Logger: logger,
		Manual: true,
		Muted:  muted,
	})
	defer session.Close()

	g := desktop.New(session, desktop.Options{Settings: settings, Logger: logger})

	ebiten.SetWindowSize(desktop.WindowWidth, desktop.WindowHeight)
	ebiten.SetWindowTitle(desktop.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}
