// Package store implements the local durable store: CRUD over the named
// record collections plus two scalar key-value namespaces (settings and
// app state). It is the leaf dependency of the archival engine, the
// backend clients and the sync orchestrator.
//
// The store serializes its own writes (SQLite single-writer); callers
// impose no additional locking. Deletions are atomic per collection but
// not across collections, so a failure partway through a purge can leave
// some collections purged and others not. That state is surfaced to the
// caller as a storage error requiring manual reconciliation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/branchsync/internal/store/migrations"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an already-open database handle. Used by tests that prepare
// schema themselves.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for components that share the app_state
// namespace (e.g. the credential store).
func (s *Store) DB() *sql.DB {
	return s.db
}
