package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Parse flags (override env vars)
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()
	srv, err := server.NewServer(ctx, cfg, server.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	}
}
