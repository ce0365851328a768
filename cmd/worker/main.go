package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"biograph-match-engine/internal/config"
	"biograph-match-engine/internal/jobqueue"
	"biograph-match-engine/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("worker starting")

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	st := store.New(db, logger)
	if err := st.EnsureSchema(); err != nil {
		logger.Fatal("failed to ensure match report schema", zap.Error(err))
	}

	queue := jobqueue.New(db, st, logger, cfg.JobPollInterval, cfg.StaleThreshold, cfg.MaxJobAttempts, cfg.BatchProgressEvery)
	if err := queue.EnsureSchema(); err != nil {
		logger.Fatal("failed to ensure batch job schema", zap.Error(err))
	}

	stop := make(chan struct{})
	go queue.Run(stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down worker")
	close(stop)
}
