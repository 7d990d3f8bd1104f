// Package localdb opens the client's SQLite database and keeps its schema
// current.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/dmitrijs2005/flashcards/internal/client/migrations"
	"github.com/dmitrijs2005/flashcards/internal/filex"
)

const driverName = "sqlite"

// MemoryDSN selects a private in-memory database.
const MemoryDSN = ":memory:"

// RunMigrations applies every pending embedded migration. Re-running is a
// no-op.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Open opens the database at dsn and migrates it. A plain file path may start
// with "~" and its directory is created when missing. The pool is limited to
// a single connection: SQLite serialises writers anyway, and an in-memory
// database exists only on the connection that created it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != MemoryDSN && !strings.HasPrefix(dsn, "file:") {
		path, err := filex.EnsureParentDir(dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dsn, err)
		}
		dsn = path
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
