// @title Quiz Generator API
// @version 1.0
// @description Generates quiz questions on a topic with a language model.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-gen/cmd/api/docs"
	"quiz-gen/internal/config"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()
	if cfg.File != "" {
		appLogger.Info("Using config file", zap.String("path", cfg.File))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, err := server.NewDependencies(initCtx, cfg, registry)
	initCancel()
	if err != nil {
		appLogger.Fatal("Failed to initialize generation pipeline", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			appLogger.Error("Failed to close dependencies", zap.Error(err))
		}
	}()

	app := server.NewApp(cfg.Server, server.Handlers{
		Quiz:    handler.NewQuizHandler(deps.Builder, deps.Service, cfg.Generation.FailureStatus),
		Health:  handler.NewHealthHandler(deps.Cache),
		Metrics: registry,
		Swagger: true,
	})

	// Start server
	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.Int("failure_status", cfg.Generation.FailureStatus),
		)
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}
