// Package storage keeps an optional sqlite log of runs and the datasets they
// produced.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"premierstats/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT NOT NULL,
  dataset TEXT NOT NULL,
  schemaVersion TEXT,
  offline INTEGER NOT NULL DEFAULT 0,
  startedAt TEXT NOT NULL,
  elapsedMs INTEGER NOT NULL,
  unitsTotal INTEGER NOT NULL,
  unitsFailed INTEGER NOT NULL,
  records INTEGER NOT NULL,
  duplicates INTEGER NOT NULL,
  rowsOut INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(id, dataset)
);
CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset, startedAt);

CREATE TABLE IF NOT EXISTS unit_failures (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  dataset TEXT NOT NULL,
  unit TEXT NOT NULL,
  reason TEXT NOT NULL,
  message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_unit_failures_run ON unit_failures(runId, dataset);

CREATE TABLE IF NOT EXISTS players (
  runId TEXT NOT NULL,
  name TEXT NOT NULL,
  team TEXT,
  valuesJson TEXT NOT NULL,
  PRIMARY KEY(runId, name)
);

CREATE TABLE IF NOT EXISTS transfer_values (
  runId TEXT NOT NULL,
  name TEXT NOT NULL,
  value REAL NOT NULL,
  PRIMARY KEY(runId, name)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func NewRunID() string {
	return uuid.NewString()
}

// Run is one dataset build as stored in the runs table. The players and
// transfers builds of one invocation share an ID.
type Run struct {
	ID            string
	Dataset       string
	SchemaVersion string
	Offline       bool
	StartedAt     time.Time
	Elapsed       time.Duration
	Units         int
	UnitsFailed   int
	Records       int
	Duplicates    int
	Rows          int
	Failures      []internal.UnitFailure
}

func (d *DB) InsertRun(run Run) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (id, dataset, schemaVersion, offline, startedAt, elapsedMs, unitsTotal, unitsFailed, records, duplicates, rowsOut)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dataset, run.SchemaVersion, run.Offline, run.StartedAt.UTC().Format(time.RFC3339),
		run.Elapsed.Milliseconds(), run.Units, len(run.Failures), run.Records, run.Duplicates, run.Rows,
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO unit_failures (runId, dataset, unit, reason, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range run.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		if _, err := stmt.Exec(run.ID, run.Dataset, f.Unit, f.Reason, msg); err != nil {
			return err
		}
	}

	if err := setMetadata(tx, "last_run:"+run.Dataset, run.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs first. Failures are not loaded.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, dataset, schemaVersion, offline, startedAt, elapsedMs, unitsTotal, unitsFailed, records, duplicates, rowsOut
FROM runs
ORDER BY startedAt DESC, createdAt DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r         Run
			version   sql.NullString
			startedAt string
			elapsedMs int64
		)
		if err := rows.Scan(&r.ID, &r.Dataset, &version, &r.Offline, &startedAt, &elapsedMs,
			&r.Units, &r.UnitsFailed, &r.Records, &r.Duplicates, &r.Rows); err != nil {
			return nil, err
		}
		r.SchemaVersion = version.String
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) RunFailures(runID, dataset string) ([]internal.UnitFailure, error) {
	rows, err := d.conn.Query(`SELECT unit, reason, message FROM unit_failures WHERE runId = ? AND dataset = ? ORDER BY id`, runID, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.UnitFailure
	for rows.Next() {
		var f internal.UnitFailure
		var msg string
		if err := rows.Scan(&f.Unit, &f.Reason, &msg); err != nil {
			return nil, err
		}
		if msg != "" {
			f.Err = errors.New(msg)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// PlayerTable is the read side of a typed player dataset.
type PlayerTable interface {
	Keys() []string
	Len() int
	Row(i int) []internal.Value
}

// SavePlayers stores each row as a JSON object keyed by column. Absent
// values are omitted from the object.
func (d *DB) SavePlayers(runID string, table PlayerTable) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO players (runId, name, team, valuesJson) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	keys := table.Keys()
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		if len(row) < 2 {
			continue
		}
		values := make(map[string]any, len(keys))
		for c := 2; c < len(keys) && c < len(row); c++ {
			if v := jsonValue(row[c]); v != nil {
				values[keys[c]] = v
			}
		}
		blob, err := json.Marshal(values)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(runID, row[0].String(), row[1].String(), string(blob)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPlayerValues returns the stored attribute object of one player.
func (d *DB) LoadPlayerValues(runID, name string) (map[string]any, error) {
	var blob string
	err := d.conn.QueryRow(`SELECT valuesJson FROM players WHERE runId = ? AND name = ?`, runID, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonValue(v internal.Value) any {
	if i, ok := v.Int(); ok {
		return i
	}
	if f, ok := v.Number(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}

func (d *DB) SaveTransferValues(runID string, values []internal.TransferValue) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO transfer_values (runId, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range values {
		if _, err := stmt.Exec(runID, v.Name, v.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) LoadTransferValues(runID string) ([]internal.TransferValue, error) {
	rows, err := d.conn.Query(`SELECT name, value FROM transfer_values WHERE runId = ? ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.TransferValue
	for rows.Next() {
		var v internal.TransferValue
		if err := rows.Scan(&v.Name, &v.Value); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setMetadata(e execer, key, value string) error {
	_, err := e.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	return setMetadata(d.conn, key, value)
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// LastRunID returns the id of the latest stored run of dataset, or "".
func (d *DB) LastRunID(dataset string) (string, error) {
	v, err := d.GetMetadata("last_run:" + dataset)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}
