package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/session"
	"github.com/tomz197/splitshot/internal/web"
)

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = "8080"
	defaultMaxSessions = "64"
)

func main() {
	logger, closeLog, err := logging.New(logging.OptionsFromEnv("web", os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid game config", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	maxSessions, err := strconv.Atoi(config.GetEnv("WEB_MAX_SESSIONS", defaultMaxSessions))
	if err != nil {
		logger.Fatal("invalid WEB_MAX_SESSIONS", "err", err)
	}

	srv, err := web.New(web.Options{
		Config:   cfg,
		Registry: session.NewRegistry(maxSessions, logger),
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to create web server", "err", err)
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting web server", "url", "http://"+httpServer.Addr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 15*time.Second)
	if err := srv.Registry().Shutdown(drainCtx); err != nil {
		logger.Warn("sessions still open after drain", "err", err)
	}
	cancelDrain()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
