package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-orders-api/internal/domains/catalog/adapters/seed"
	catalogdomain "github.com/Apurer/go-gin-orders-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-orders-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup, err := platformpostgres.ConnectFromEnv(ctx, logger)
	if err != nil {
		log.Fatalf("cannot seed catalog: %v", err)
	}
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set; cannot seed catalog")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	var items []*catalogdomain.Item
	if path := os.Getenv("MENU_FILE"); path != "" {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			log.Fatalf("failed to read %s: %v", path, readErr)
		}
		items, err = seed.Parse(raw, os.Getenv("IMAGE_BASE_URL"))
	} else {
		items, err = seed.DefaultMenu(os.Getenv("IMAGE_BASE_URL"))
	}
	if err != nil {
		log.Fatalf("failed to load menu: %v", err)
	}
	if err := catalogpostgres.NewRepository(db).Upsert(ctx, items); err != nil {
		log.Fatalf("failed to upsert menu: %v", err)
	}
	logger.Info("catalog seeded", slog.Int("items", len(items)))
}
