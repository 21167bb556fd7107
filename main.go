package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"auction-marketplace/internal/app"
	"auction-marketplace/internal/config"
	"auction-marketplace/utils"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"path": *configPath, "error": err.Error()})
	}
	utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	err = application.Run(ctx)
	application.Close()
	if err != nil {
		utils.Error("auction server exited with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	utils.Info("auction server stopped", nil)
}
