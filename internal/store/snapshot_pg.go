package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultSnapshotKey is the snapshot document key, kept equal to the
// browser's local-storage key so exported and imported data line up.
const DefaultSnapshotKey = "pgvcc.scheduledVisits"

// pgSnapshot is the Postgres implementation of SnapshotStore. The whole
// collection lives in one jsonb row per key; every Save overwrites it, so
// concurrent writers resolve last-write-wins at document granularity —
// the same policy the browser's local storage gave multiple tabs.
type pgSnapshot struct {
	db  db
	key string
}

// NewPGSnapshot constructs a SnapshotStore backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation. Pass key="" for DefaultSnapshotKey.
func NewPGSnapshot(db db, key string) SnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &pgSnapshot{db: db, key: key}
}

// Save upserts the snapshot document for the key.
func (p *pgSnapshot) Save(ctx context.Context, data []byte) error {
	const q = `
		INSERT INTO visit_snapshots (key, data, updated_at)
		VALUES (@key, @data, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	_, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": p.key, "data": data})
	if err != nil {
		return fmt.Errorf("store.pgSnapshot.Save: %w", err)
	}
	return nil
}

// Load retrieves the snapshot document for the key.
func (p *pgSnapshot) Load(ctx context.Context) ([]byte, error) {
	const q = `SELECT data FROM visit_snapshots WHERE key = @key`

	var data []byte
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"key": p.key}).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("store.pgSnapshot.Load: %w", err)
	}
	return data, nil
}
