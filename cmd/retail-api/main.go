package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"retail-analytics/internal/api"
	"retail-analytics/internal/api/handler"
	"retail-analytics/internal/config"
	"retail-analytics/internal/store"
	"retail-analytics/pkg/router"
	"retail-analytics/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open run store", zap.Error(err))
	}
	defer db.Close()

	r := router.New(logger)
	api.RegisterRoutes(r, handler.NewRunHandler(db, logger))

	logger.Info("starting API server", zap.String("addr", cfg.ListenAddr))
	if err := r.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
