package main

import (
	"context"

	"liqheat/config"
	"liqheat/internal/app"
	"liqheat/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	// run the overlay engine
	if _, err := app.Start(context.Background(), cfg, log); err != nil {
		log.Fatal("overlay failed", zap.Error(err))
	}

	select {}
}
