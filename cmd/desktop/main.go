package main

import (
	"fmt"
	"os"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/audio/synth"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/desktop"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/logging"
)

func main() {
	logger, closeLog, err := logging.New(logging.OptionsFromEnv("desktop", os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid game config", "err", err)
	}

	var player audio.Player = audio.Nop{}
	if config.GetEnv("GAME_AUDIO", "on") != "off" {
		p, err := synth.New(logger)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer p.Close()
			player = p
		}
	}

	win, err := desktop.New(game.Options{Config: cfg, Audio: player, Logger: logger})
	if err != nil {
		logger.Fatal("failed to start game", "err", err)
	}
	if err := win.Run(); err != nil {
		logger.Error("window closed with error", "err", err)
		os.Exit(1)
	}
}
