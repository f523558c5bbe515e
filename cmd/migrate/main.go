package main

// Create and seed the rackets table used by CATALOG_SOURCE=postgres:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"racket-backend/internal/shared/config"
	"racket-backend/internal/shared/storage/db"
	"racket-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultOptions(db.PurposeMigrate))
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
