package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
	"github.com/cognicore/tabtopic/pkg/tabtopic/report"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	window_id INTEGER NOT NULL,
	captured_at TEXT NOT NULL,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	run_id TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	stage TEXT,
	data TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) check() error {
	if s.closed.Load() {
		return internalerr.ErrStoreClosed
	}
	return nil
}

// LoadSettings returns the saved settings or store.DefaultSettings.
func (s *sqliteStore) LoadSettings(ctx context.Context) (store.Settings, error) {
	if err := s.check(); err != nil {
		return store.Settings{}, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.DefaultSettings(), nil
	}
	if err != nil {
		return store.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	var st store.Settings
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return store.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return st, nil
}

// SaveSettings replaces the saved settings.
func (s *sqliteStore) SaveSettings(ctx context.Context, st store.Settings) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// PushSnapshot appends snap and trims the stack to arrange.MaxUndo entries.
func (s *sqliteStore) PushSnapshot(ctx context.Context, snap arrange.Snapshot) error {
	if err := s.check(); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, window_id, captured_at, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, snap.ID, snap.WindowID, snap.CapturedAt.UTC().Format(time.RFC3339Nano), string(data)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE seq NOT IN (SELECT seq FROM snapshots ORDER BY seq DESC LIMIT ?)
	`, arrange.MaxUndo); err != nil {
		return fmt.Errorf("trim snapshots: %w", err)
	}

	return tx.Commit()
}

// PopSnapshot removes and returns the newest snapshot.
func (s *sqliteStore) PopSnapshot(ctx context.Context) (arrange.Snapshot, error) {
	if err := s.check(); err != nil {
		return arrange.Snapshot{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return arrange.Snapshot{}, err
	}
	defer tx.Rollback()

	var (
		seq  int64
		data string
	)
	err = tx.QueryRowContext(ctx, `SELECT seq, data FROM snapshots ORDER BY seq DESC LIMIT 1`).Scan(&seq, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return arrange.Snapshot{}, internalerr.ErrNotFound
	}
	if err != nil {
		return arrange.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap arrange.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return arrange.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE seq = ?`, seq); err != nil {
		return arrange.Snapshot{}, fmt.Errorf("delete snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return arrange.Snapshot{}, err
	}
	return snap, nil
}

// SnapshotCount returns the undo stack depth.
func (s *sqliteStore) SnapshotCount(ctx context.Context) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// SaveReport overwrites the latest report.
func (s *sqliteStore) SaveReport(ctx context.Context, r report.Report) error {
	if err := s.check(); err != nil {
		return err
	}
	data, err := report.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, run_id, generated_at, stage, data) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			generated_at = excluded.generated_at,
			stage = excluded.stage,
			data = excluded.data
	`, r.RunID, r.GeneratedAt.UTC().Format(time.RFC3339Nano), r.Stage, string(data))
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LatestReport returns the last saved report.
func (s *sqliteStore) LatestReport(ctx context.Context) (report.Report, error) {
	if err := s.check(); err != nil {
		return report.Report{}, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM reports WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Report{}, internalerr.ErrNotFound
	}
	if err != nil {
		return report.Report{}, fmt.Errorf("load report: %w", err)
	}
	return report.Unmarshal([]byte(data))
}
