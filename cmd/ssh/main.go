package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/draw"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/session"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultMaxSessions = "64"
)

func main() {
	logger, closeLog, err := logging.New(logging.OptionsFromEnv("ssh", os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid game config", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	maxSessions, err := strconv.Atoi(config.GetEnv("SSH_MAX_SESSIONS", defaultMaxSessions))
	if err != nil {
		logger.Fatal("invalid SSH_MAX_SESSIONS", "err", err)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "maxSessions", maxSessions)

	registry := session.NewRegistry(maxSessions, logger)
	handler := &gameHandler{cfg: cfg, registry: registry, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			handler.middleware,
			activeterm.Middleware(),
			wishlogging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 15*time.Second)
	if err := registry.Shutdown(drainCtx); err != nil {
		logger.Warn("sessions still open after drain", "err", err, "count", registry.Count())
	}
	cancelDrain()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

type gameHandler struct {
	cfg      *config.Config
	registry *session.Registry
	logger   *log.Logger
}

// middleware runs one game per SSH session.
func (h *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "cols", pty.Window.Width, "rows", pty.Window.Height)

		sizes := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizes.update(win.Width, win.Height)
			}
		}()

		t, err := session.NewTerminal(bufio.NewReader(sess), sess, session.TerminalOptions{
			Game: game.Options{
				Config: h.cfg,
				Audio:  audio.Nop{},
			},
			TermSizeFunc: sizes.getSize,
			Registry:     h.registry,
			User:         sess.User(),
			Logger:       logger,
		})
		if errors.Is(err, session.ErrFull) {
			fmt.Fprintln(sess, "Server is full, try again later.")
			return
		}
		if err != nil {
			logger.Error("could not start session", "err", err)
			return
		}

		if err := t.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}
		logger.Info("session ended", "rounds", t.Game().Rounds())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
