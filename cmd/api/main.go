package main

import (
	"context"
	"os"

	"racket-backend/internal/bootstrap"
	"racket-backend/internal/shared/config"
	"racket-backend/internal/shared/server"
	"racket-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	addr := server.Addr(cfg.Host, cfg.Port)
	telemetry.Info("server.start", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("server.error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
