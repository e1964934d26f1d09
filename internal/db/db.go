package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection used to track pipeline runs.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDBPath returns ~/.smith/smith.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".smith")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "smith.db"), nil
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying *sql.DB for advanced queries.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stage_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    repo        TEXT NOT NULL,
    run_id      TEXT NOT NULL,
    stage       TEXT NOT NULL CHECK(stage IN ('profile','entities','build-env','bug-gen','collect','validate','gather','issue-gen','dataset','distill')),
    event       TEXT NOT NULL CHECK(event IN ('started','progress','completed','failed')),
    exit_code   INTEGER,
    timestamp   TEXT NOT NULL DEFAULT (datetime('now')),
    metadata    TEXT
);
CREATE INDEX IF NOT EXISTS idx_stage_latest ON stage_events(run_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_stage_repo_stage ON stage_events(repo, stage);

CREATE TABLE IF NOT EXISTS validation_runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    repo        TEXT NOT NULL,
    patch_hash  TEXT NOT NULL,
    worker      TEXT NOT NULL,
    outcome     TEXT NOT NULL CHECK(outcome IN ('pending','resolved','unresolved','error')),
    duration_ms INTEGER,
    summary     TEXT,
    timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_validation_repo_patch ON validation_runs(repo, patch_hash);

CREATE TABLE IF NOT EXISTS test_results (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    validation_run_id INTEGER NOT NULL REFERENCES validation_runs(id),
    test_name         TEXT NOT NULL,
    pre_status        TEXT NOT NULL,
    post_status       TEXT NOT NULL,
    classification    TEXT NOT NULL CHECK(classification IN ('F2P','P2P','F2F','P2F')),
    timestamp         TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_test_results_run ON test_results(validation_run_id, classification);
`

const schemaV2 = `
CREATE TABLE IF NOT EXISTS candidate_queue (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    repo        TEXT NOT NULL,
    patch_hash  TEXT NOT NULL UNIQUE,
    bug_kind    TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','active','completed','failed')),
    position    INTEGER NOT NULL,
    added_at    TEXT NOT NULL DEFAULT (datetime('now')),
    started_at  TEXT,
    finished_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_candidate_queue_status ON candidate_queue(status, position);
`

// Migrate applies the database schema, advancing schema_version as needed.
func (d *DB) Migrate() error {
	if err := d.applyVersion(1, schemaV1); err != nil {
		return err
	}
	if err := d.applyVersion(2, schemaV2); err != nil {
		return err
	}
	return nil
}

func (d *DB) applyVersion(version int, schema string) error {
	var count int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&count)
	if err == nil && count > 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("apply schema v%d: %w", version, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Reset drops all tables and re-applies the schema.
func (d *DB) Reset() error {
	tables := []string{"candidate_queue", "test_results", "validation_runs", "stage_events", "schema_version"}
	for _, t := range tables {
		if _, err := d.conn.Exec("DROP TABLE IF EXISTS " + t); err != nil {
			return fmt.Errorf("drop table %s: %w", t, err)
		}
	}
	return d.Migrate()
}
