package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/stockperf/config"
	schema "github.com/guttosm/stockperf/db"
	"github.com/guttosm/stockperf/internal/storage"

	_ "github.com/lib/pq"  // PostgreSQL driver for database/sql
	_ "modernc.org/sqlite" // embedded SQLite driver for database/sql
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// migrator applies the embedded schema; overridden in tests.
var migrator = schema.Migrate

// Stores bundles the open database handle and the repositories built on it.
type Stores struct {
	DB           *sql.DB
	Dialect      storage.Dialect
	Transactions storage.TransactionsRepository
	Quotes       storage.QuotesRepository
}

// Close releases the database handle.
func (s *Stores) Close() error {
	return s.DB.Close()
}

// InitDatabase opens the configured database, verifies connectivity and
// applies pending migrations.
//
// Behavior:
//   - DB_DRIVER selects postgres (DSN from cfg.Postgres) or sqlite (SQLITE_PATH).
//   - SQLite handles are limited to one open connection; file databases run in WAL mode.
//   - The handle is closed again when ping or migration fails.
//
// Example usage:
//
//	db, dialect, err := app.InitDatabase(config.AppConfig)
//	if err != nil {
//	    log.Fatalf("failed to connect: %v", err)
//	}
//	defer db.Close()
func InitDatabase(cfg config.Config) (*sql.DB, storage.Dialect, error) {
	dialect, err := storage.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.Postgres.DSN()
	if dialect == storage.SQLite {
		dsn = cfg.Database.SQLitePath
	}

	// Initialize database handle (does not establish a real connection yet)
	db, err := sqlOpener(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	if dialect == storage.SQLite {
		// one connection keeps ":memory:" databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping %s: %w", dialect, err)
	}

	if dialect == storage.SQLite && dsn != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if err := migrator(db, string(dialect)); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to migrate %s: %w", dialect, err)
	}

	return db, dialect, nil
}

// OpenStores connects to the configured database and builds the repositories.
func OpenStores(cfg config.Config) (*Stores, error) {
	db, dialect, err := databaseOpener(cfg)
	if err != nil {
		return nil, err
	}
	return &Stores{
		DB:           db,
		Dialect:      dialect,
		Transactions: storage.NewTransactionsRepository(db, dialect),
		Quotes:       storage.NewQuotesRepository(db, dialect),
	}, nil
}

// databaseOpener is an indirection used by OpenStores; overridden in tests to avoid real connections.
var databaseOpener = InitDatabase
