package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/napguard/internal/audio"
	"github.com/tomz197/napguard/internal/audio/beepaudio"
	"github.com/tomz197/napguard/internal/client"
	"github.com/tomz197/napguard/internal/config"
	"github.com/tomz197/napguard/internal/game"
)

func main() {
	// The screen belongs to the game; logs go to NAPGUARD_LOG_FILE.
	logFile, err := config.OpenLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := config.NewLogger(logFile, "napguard")

	table, err := config.LoadTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load annoyance types: %v\n", err)
		os.Exit(1)
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
		Muted:  muted,
	})
	defer session.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(session, reader, os.Stdout, client.ClientOptions{
		Username: os.Getenv("USER"),
		Settings: settings,
		Logger:   logger,
	})
	if err := c.Run(context.Background()); err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
