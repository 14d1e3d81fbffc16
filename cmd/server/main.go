package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/logging"
	"github.com/cruxstack/find-my-rep-go/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.AppLogLevel, "find-my-rep")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal("failed to init server", "error", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.AppListenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.AppListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
