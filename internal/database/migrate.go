package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies the ordered SQL scripts in dir. It runs once at boot;
// already-applied scripts are skipped.
func (db *DB) Migrate(ctx context.Context, dir string) error {
	goose.SetLogger(goose.NopLogger())

	// Goose needs a database/sql connection; adapt one from the pgx pool config.
	sqlDB := stdlib.OpenDB(*db.Pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	db.logger.Info("migrations applied", slog.String("dir", dir))
	return nil
}
