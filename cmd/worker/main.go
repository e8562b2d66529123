package main

import (
	"context"
	"time"

	"tableview/internal/activities"
	"tableview/internal/config"
	"tableview/internal/logging"
	"tableview/internal/storage"
	"tableview/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger := logging.Must(cfg, "tableview-worker")
	defer func() { _ = logger.Sync() }()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal("dial temporal", zap.Error(err))
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	a, err := activities.New(cfg, db, logger)
	if err != nil {
		logger.Fatal("configure activities", zap.Error(err))
	}
	activities.Register(w, a)

	logger.Info("tableview worker listening", zap.String("temporal", cfg.TemporalAddress), zap.String("queue", cfg.TemporalTaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
