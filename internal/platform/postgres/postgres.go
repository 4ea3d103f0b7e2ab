package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity. Driver errors
// are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Open dials dsn and returns the DB plus a cleanup function. An empty dsn yields a nil DB
// and no error so callers can choose in-memory stores; a configured dsn that cannot be
// reached is an error.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func(), error) {
	noop := func() {}
	if strings.TrimSpace(dsn) == "" {
		if logger != nil {
			logger.Warn("POSTGRES_DSN not set, using in-memory stores")
		}
		return nil, noop, nil
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, noop, fmt.Errorf("connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, noop, fmt.Errorf("unwrap postgres connection: %w", err)
	}
	if logger != nil {
		logger.Info("postgres connection established")
	}
	return db, func() { _ = sqlDB.Close() }, nil
}

// ConnectFromEnv opens the database named by POSTGRES_DSN. See Open.
func ConnectFromEnv(ctx context.Context, logger *slog.Logger) (*gorm.DB, func(), error) {
	return Open(ctx, os.Getenv("POSTGRES_DSN"), logger)
}
