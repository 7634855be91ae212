package main

import (
	"context"
	"cyberdash/internal/api"
	"cyberdash/internal/config"
	"cyberdash/internal/engine"
	"cyberdash/internal/observability"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	metrics := observability.NewMetrics()
	source := engine.NewSource(cfg.Dataset.Path,
		engine.WithLogger(logger),
		engine.WithLoadHook(func(cs *engine.ColumnStore, elapsed time.Duration) {
			metrics.ObserveLoad(cs.Len(), elapsed)
		}),
	)

	h := api.NewHandler(source, api.Options{
		Theme:     cfg.Charts,
		Dashboard: cfg.Dashboard,
		Metrics:   metrics,
		Version:   Version,
	})
	e := api.NewServer(h, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The API is live immediately; requests arriving before the preload
	// finishes join the same load.
	if cfg.Dataset.Preload {
		go source.Preload(ctx)
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("dataset", cfg.Dataset.Path))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
