package main

import (
	"context"
	"log"

	"spaces-storage/internal/bootstrap"
	"spaces-storage/internal/config"
	"spaces-storage/internal/metrics"
	"spaces-storage/internal/server"
)

func main() {
	cfg := config.Load()
	metrics.Init()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting media server on %s (backend=%s)", addr, cfg.StorageBackend)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
