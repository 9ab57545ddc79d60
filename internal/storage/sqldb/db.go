// Package sqldb implements storage.Store on top of database/sql through
// sqlx. SQLite (pure Go, no CGO) and PostgreSQL are supported.
package sqldb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/restaurante/backend/internal/storage"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Store implements storage.Store using a SQL database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database without touching the schema.
//
// For SQLite the dsn is a file path or a file: URI. The parent directory
// is created and foreign keys are enabled on every connection unless the
// dsn sets that pragma itself.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(sqliteFile(dsn)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// New opens the database and runs pending migrations.
func New(driver, dsn string) (*Store, error) {
	s, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// NewWithDB wraps an existing connection. The schema is left untouched.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// sqlitePragmas run on every new connection.
var sqlitePragmas = []struct{ name, value string }{
	{"foreign_keys", "foreign_keys(1)"},
	{"busy_timeout", "busy_timeout(5000)"},
}

// sqliteFile is the database path of a dsn, without scheme or query.
func sqliteFile(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}

// sqliteDSN turns dsn into a file: URI carrying every pragma of
// sqlitePragmas the dsn does not set already.
func sqliteDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	uri, query, _ := strings.Cut(dsn, "?")

	var params []string
	if query != "" {
		params = append(params, query)
	}
	for _, p := range sqlitePragmas {
		if !strings.Contains(query, p.name) {
			params = append(params, "_pragma="+p.value)
		}
	}
	if len(params) == 0 {
		return uri
	}
	return uri + "?" + strings.Join(params, "&")
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction, committing when it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
