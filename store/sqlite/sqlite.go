/*
Package sqlite provides a SQLite-backed store.Medium.

PURPOSE:
  Keeps the invoice history slot in a single-row table. The gateway
  still owns all array semantics; this package only stores and returns
  the opaque blob, so the corruption policy (degrade to empty) applies
  identically to a damaged database row.

SCHEMA:
  slots(name TEXT PRIMARY KEY, payload BLOB, updated_at TIMESTAMP)

WAL MODE:
  The database is opened with WAL for better crash recovery and so a
  reader never blocks the single writer.

USAGE:
  medium, err := sqlite.New("./invoices.db")
  if err != nil {
      log.Fatal(err)
  }
  defer medium.Close()
  gateway := store.NewGateway(medium, logger)

SEE ALSO:
  - store/store.go: Medium contract and Gateway semantics
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aliveevie/invoice-flow-btc/store"
)

// Medium implements store.Medium on SQLite.
type Medium struct {
	db   *sql.DB
	slot string
	mu   sync.RWMutex
}

// New opens (or creates) a SQLite medium at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Medium, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	m := &Medium{db: db, slot: store.Slot}
	if err := m.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return m, nil
}

// Close closes the database connection.
func (m *Medium) Close() error {
	return m.db.Close()
}

func (m *Medium) migrate() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (m *Medium) Read(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var payload []byte
	err := m.db.QueryRowContext(ctx,
		`SELECT payload FROM slots WHERE name = ?`, m.slot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (m *Medium) Write(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, m.slot, payload, time.Now().UTC())
	return err
}

func (m *Medium) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, m.slot)
	return err
}
