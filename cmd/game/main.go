package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/audio/synth"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/session"
	"github.com/tomz197/splitshot/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs only go to LOG_FILE; stdout belongs to the game.
	logger, closeLog, err := logging.New(logging.OptionsFromEnv("game", nil))
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{Config: cfg, Audio: openAudio(logger), Logger: logger}
	if c, ok := opts.Audio.(interface{ Close() }); ok {
		defer c.Close()
	}

	if config.GetEnv("GAME_UI", "ansi") == "tcell" {
		return runTcell(ctx, opts)
	}
	return runANSI(ctx, opts, logger)
}

// openAudio returns the synth player, or a silent one if no device is available.
func openAudio(logger *log.Logger) audio.Player {
	if config.GetEnv("GAME_AUDIO", "on") == "off" {
		return audio.Nop{}
	}
	p, err := synth.New(logger)
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return audio.Nop{}
	}
	return p
}

func runANSI(ctx context.Context, opts game.Options, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	t, err := session.NewTerminal(bufio.NewReader(os.Stdin), os.Stdout, session.TerminalOptions{
		Game:           opts,
		Logger:         logger,
		User:           os.Getenv("USER"),
		InactivityWarn: -1,
	})
	if err != nil {
		return err
	}
	return t.Run(ctx)
}

func runTcell(ctx context.Context, opts game.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	h, err := tui.New(screen, opts)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}
