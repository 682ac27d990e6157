package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"todo-service/internal/cache"
	"todo-service/internal/config"
	"todo-service/internal/database"
	"todo-service/internal/events"
	"todo-service/internal/repository"
	"todo-service/internal/routes"
	"todo-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, "Config load failed", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Database not available", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db, cfg.DatabaseURL); err != nil {
		logger.Error(ctx, "Schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	store := repository.New(db)

	// Optional collaborators; both are nil-safe when unconfigured.
	cch := cache.New(ctx, cfg)
	defer cch.Close()
	producer := events.NewProducer(ctx, cfg)
	defer producer.Close()
	go events.RunInvalidator(ctx, cfg, cch)

	router := routes.Router(store, cch, producer, time.Duration(cfg.RequestTimeout)*time.Second)
	handler := http.Handler(router)
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders: []string{"*"},
		}).Handler(router)
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	cancel()
	logger.Info(ctx, "Server stopped")
}
