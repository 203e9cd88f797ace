package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"fitlot/internal/config"
	"fitlot/internal/daemon"
	"fitlot/internal/logging"
	"fitlot/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", "error", err)
		return
	}
	defer st.Close()

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		logger.Error("create daemon", "error", err)
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", "error", err)
		return
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("fitlotd shutting down")
}
