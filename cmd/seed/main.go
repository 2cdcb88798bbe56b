package main

import (
	"context"
	"log"
	"os"

	"construapp/internal/bus"
	"construapp/internal/config"
	"construapp/internal/db"
	productrepo "construapp/internal/repository/product"
	"construapp/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	eventBus, err := bus.Connect(ctx, cfg.RedisURL, cfg.AppID, logger)
	if err != nil {
		logger.Printf("change bus unreachable, running servers will not pick up the seed until restart: %v", err)
		eventBus = nil
	} else {
		defer eventBus.Close()
	}

	repo := productrepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, cfg.AppID, repo, eventBus, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
