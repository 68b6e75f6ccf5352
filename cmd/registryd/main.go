package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"building-registry/config"
	"building-registry/internal/api"
	"building-registry/internal/backup"
	"building-registry/internal/db"
	"building-registry/internal/importer"
	"building-registry/internal/logging"
	"building-registry/internal/registry"
	"building-registry/internal/store"
)

func main() {
	config.LoadEnv()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.String("path", configPath))

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database := store.New(gormDB, logger)
	reg := registry.New(database, logger)

	imp := importer.NewService(reg.Buildings, reg.Properties, reg.Buildings, logger)
	bak := backup.NewService(reg.Buildings, logger)
	scheduler := backup.NewScheduler(cfg.Backup, bak, logger)

	// The server starts before the schema step finishes so /healthz can
	// report opening; storage calls answer 503 until then.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := database.Open(ctx); err != nil {
			return
		}
		if err := reg.Load(ctx); err != nil {
			logger.Error("failed to load registry", zap.Error(err))
			return
		}
		scheduler.Run(ctx)
	}()

	router := api.NewRouter(api.NewHandler(database, reg, imp, bak, logger), cfg.Server, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}
	cancel()
	wg.Wait()

	if err := database.Close(); err != nil {
		logger.Error("failed to close database", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
