package database

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"todo-service/internal/config"
	"todo-service/pkg/logger"
)

// DriverFor returns the database/sql driver name for the given DSN.
// postgres:// and postgresql:// URLs use lib/pq; anything else is treated as
// a sqlite path or DSN.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

// Open constructs the bounded connection pool for the configured store:
// DBPoolSize idle connections, plus up to DBMaxOverflow more under load.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	driver := DriverFor(cfg.DatabaseURL)
	dsn := cfg.DatabaseURL
	if driver == "sqlite3" && !strings.Contains(dsn, "_foreign_keys") {
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DBPoolSize + cfg.DBMaxOverflow)
		db.SetMaxIdleConns(cfg.DBPoolSize)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info(ctx, "Database pool initialized",
		"driver", driver, "max_open", cfg.DBPoolSize+cfg.DBMaxOverflow)
	return db, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		is_done     BOOLEAN NOT NULL DEFAULT FALSE,
		owner_id    BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos (owner_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		description TEXT,
		is_done     BOOLEAN NOT NULL DEFAULT FALSE,
		owner_id    INTEGER NOT NULL REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos (owner_id)`,
}

// EnsureSchema creates the users and todos tables if absent. There is no
// migrations system; the schema is bootstrapped idempotently at startup.
func EnsureSchema(ctx context.Context, db *sql.DB, dsn string) error {
	stmts := postgresSchema
	if DriverFor(dsn) == "sqlite3" {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
