// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/president-online/president/internal/auth"
	"github.com/president-online/president/internal/cache"
	"github.com/president-online/president/internal/config"
	"github.com/president-online/president/internal/database"
	"github.com/president-online/president/internal/handlers"
	"github.com/president-online/president/internal/metrics"
	"github.com/president-online/president/internal/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()
	// The game core logs through the standard logger.
	logrus.SetLevel(logger.GetLevel())

	if err := auth.Init(cfg.TokenExpireTime); err != nil {
		logger.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr != "" {
		cache.QueueName = cfg.HistorianQueueName
		if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB); err != nil {
			logger.Warnf("room actions will not be queued: %v", err)
			cache.Rdb = nil
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer database.DB.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			logger.Fatalf("database schema: %v", err)
		}
	}

	m := metrics.New("president", nil)
	srv := handlers.NewRoomServer(logger, m)
	srv.Origins = cfg.Origins()

	logged := middleware.LogMiddleware(logger)
	mux := http.NewServeMux()
	mux.Handle("/room/create", logged(http.HandlerFunc(srv.CreateRoomHandler)))
	mux.Handle("/room/join", logged(http.HandlerFunc(srv.JoinRoomHandler)))
	mux.Handle("/room/list", logged(http.HandlerFunc(srv.ListRoomsHandler)))
	mux.Handle("/room/ws/", logged(http.HandlerFunc(srv.RoomWSHandler)))
	mux.Handle("/metrics", m.Handler())

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.Origins()),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillahandlers.AllowCredentials(),
	)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: cors(mux),
	}

	go func() {
		logger.Infof("Running on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}
