package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"goblog/config"
	"goblog/internal/app"
	"goblog/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment")
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("initializing app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
