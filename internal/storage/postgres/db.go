package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3/database"

	"github.com/sandevgo/teammem/internal/storage/migrate"
	"github.com/sandevgo/teammem/pkg/log"
	"github.com/sandevgo/teammem/pkg/retry"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewDB retries the initial ping with backoff, then applies migrations.
func NewDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is required for the postgres record store")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	logger := log.FromCtx(ctx)
	err = retry.NewDefaultRetrier().Do(ctx, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn().Err(err).Msg("postgres not ready yet")
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate.Up(ctx, db, database.DialectPostgres, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
