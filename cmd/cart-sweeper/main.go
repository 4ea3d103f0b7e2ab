package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	cartspostgres "github.com/Apurer/go-gin-orders-api/internal/domains/carts/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup, err := platformpostgres.ConnectFromEnv(ctx, logger)
	if err != nil {
		log.Fatalf("cannot sweep carts: %v", err)
	}
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set; cannot sweep carts")
	}

	removed, err := cartspostgres.NewStore(db).SweepSettled(ctx)
	if err != nil {
		log.Fatalf("failed to sweep settled carts: %v", err)
	}
	logger.Info("cart sweep completed", slog.Int64("linesRemoved", removed))
}
