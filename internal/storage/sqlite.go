package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/speclint/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// timeFormat is fixed-width so stored timestamps compare correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id            TEXT PRIMARY KEY,
  started_at    TEXT,          -- UTC, timeFormat
  source        TEXT,
  config_source TEXT,
  version       TEXT,
  errors        INTEGER NOT NULL DEFAULT 0,
  warnings      INTEGER NOT NULL DEFAULT 0,
  infos         INTEGER NOT NULL DEFAULT 0,
  run_json      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  run_id      TEXT NOT NULL,
  seq         INTEGER NOT NULL,  -- position in the engine output
  rule_id     TEXT,
  severity    TEXT,
  message     TEXT,
  file        TEXT,
  line        INTEGER,
  related_ids TEXT,              -- comma-joined
  PRIMARY KEY (run_id, seq),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule_id);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id     TEXT NOT NULL,
  entity_id   TEXT,              -- optional requirement/test id; NULL = any
  pattern_sub TEXT,              -- optional substring to match message
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- UTC, timeFormat
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveRun upserts a run JSON and (re)writes its findings.
func (db *DB) SaveRun(run *model.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(timeFormat)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, config_source, version, errors, warnings, infos, run_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           config_source=excluded.config_source, version=excluded.version, errors=excluded.errors,
           warnings=excluded.warnings, infos=excluded.infos, run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.ConfigSource, run.Version,
		run.Counts.Error, run.Counts.Warning, run.Counts.Info, string(b),
	); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings
			(run_id, seq, rule_id, severity, message, file, line, related_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, f := range run.Findings {
			if _, err := stmt.Exec(
				run.ID,
				i,
				f.RuleID,
				string(f.Severity),
				f.Message,
				f.File,
				f.Line,
				strings.Join(f.RelatedIDs, ","),
			); err != nil {
				return fmt.Errorf("save finding %d of %s: %w", i, run.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (model.Run, error) {
	return db.loadRunWhere(`SELECT run_json FROM runs WHERE id = ?`, id)
}

// LoadLatestRun returns the most recently started run.
func (db *DB) LoadLatestRun() (model.Run, error) {
	return db.loadRunWhere(`SELECT run_json FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
}

func (db *DB) loadRunWhere(q string, args ...any) (model.Run, error) {
	var s string
	if err := db.conn.QueryRow(q, args...).Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, ErrNotFound
		}
		return model.Run{}, err
	}
	var run model.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return model.Run{}, fmt.Errorf("decode stored run: %w", err)
	}
	return run, nil
}
