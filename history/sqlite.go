package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	id              TEXT PRIMARY KEY,
	ts              TEXT NOT NULL,
	outcome         TEXT NOT NULL,
	objective       REAL,
	compute_seconds REAL NOT NULL,
	description     TEXT
);
CREATE INDEX IF NOT EXISTS solves_ts ON solves(ts);
`

// SQLiteStore persists solve records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) a SQLite-backed store at
// the given path. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a second pooled connection would also see
	// a fresh database when path is ":memory:".
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	var objective interface{}
	if rec.ObjectiveValue != nil {
		objective = *rec.ObjectiveValue
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solves (id, ts, outcome, objective, compute_seconds, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC().Format(tsFormat),
		rec.Outcome, objective, rec.ComputeSeconds, string(rec.Description))
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Recent implements Store.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, outcome, objective, compute_seconds, description
		 FROM solves ORDER BY ts DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts string
		var objective sql.NullFloat64
		var desc sql.NullString
		if err := rows.Scan(&rec.ID, &ts, &rec.Outcome, &objective, &rec.ComputeSeconds, &desc); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if t, err := parseTimestamp(ts); err == nil {
			rec.Timestamp = t
		}
		if objective.Valid {
			v := objective.Float64
			rec.ObjectiveValue = &v
		}
		if desc.Valid && desc.String != "" {
			rec.Description = []byte(desc.String)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
