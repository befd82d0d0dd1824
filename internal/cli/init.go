// Package cli provides common initialization shared by
// cmd/facilitae and cmd/facilitae-worker.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"facilitae/internal/config"
	"facilitae/internal/log"
	"facilitae/internal/storage/mongo"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging with default settings
// and installs it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitMongo connects to MongoDB and runs migrations.
// Exits the process on failure.
func InitMongo(ctx context.Context, logger *log.Logger, cfg *config.Config) *mongo.Store {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	store, err := mongo.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error("Failed to initialize MongoDB store", "error", err, "database", cfg.MongoDatabase)
		os.Exit(1)
	}
	return store
}
