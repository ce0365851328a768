package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"biograph-match-engine/internal/config"
	"biograph-match-engine/internal/httpapi"
	"biograph-match-engine/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

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
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	e := httpapi.NewServer(cfg, st, logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
