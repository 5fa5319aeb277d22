// cmd/historian/main.go drains queued room actions from Redis into Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/president-online/president/internal/cache"
	"github.com/president-online/president/internal/config"
	"github.com/president-online/president/internal/database"
	"github.com/president-online/president/internal/historian"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logrus.SetLevel(cfg.Logger().GetLevel())

	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		logrus.Fatal("historian needs both REDIS_ADDR and DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB); err != nil {
		logrus.Fatalf("redis: %v", err)
	}
	defer cache.Rdb.Close()
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer database.DB.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		logrus.Fatalf("database schema: %v", err)
	}

	svc := historian.New(
		historian.RedisSource{Client: cache.Rdb, Queue: cfg.HistorianQueueName},
		historian.PostgresSink{},
		cfg.HistorianBatchSize,
		cfg.HistorianFlushDelay(),
	)
	svc.Run(ctx)
}
