// Package testhelpers provides shared test fixtures. Tests run against a
// private in-memory SQLite database, so no external services are required.
package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3" //nolint:blankimports // SQLite driver

	"github.com/campushub/item-manager/internal/repository"
)

// NewTestDB opens a fresh in-memory SQLite database with the items schema
// applied. The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	// A memory database lives and dies with its connection, so the pool is
	// pinned to a single connection for the duration of the test.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewItemRepository(db, NewTestLogger())
	if err := repo.InitSchema(context.Background()); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}
