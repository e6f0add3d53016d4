package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/tripdocs/tripdocs/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open opens the durable store for the given driver and runs the embedded
// goose migrations.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		driverName string
		dialect    string
		dir        string
	)
	switch driver {
	case DriverSQLite:
		driverName, dialect, dir = "sqlite", "sqlite3", "sqlite"
		goose.SetBaseFS(migrations.SQLite)
	case DriverPostgres:
		driverName, dialect, dir = "pgx", "postgres", "postgres"
		goose.SetBaseFS(migrations.Postgres)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	if err := goose.SetDialect(dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
