// Package store persists best-of-record lists between runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"crosswarped.com/blocks"
	"crosswarped.com/blocks/internal/store/migrations"
)

// SQLite keeps best-of-record lists and per-strategy iteration totals in a
// SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns up to limit records for o, best first. A limit of zero or less
// returns all of them.
func (s *SQLite) Load(ctx context.Context, o blocks.Objective, limit int) ([]blocks.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, tie_break, arrangement, tag FROM records
		 WHERE objective = ? ORDER BY rank LIMIT ?`,
		o.RecordName(), limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var recs []blocks.Record
	for rows.Next() {
		var r blocks.Record
		if err := rows.Scan(&r.Primary, &r.TieBreak, &r.Arrangement, &r.Tag); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Save replaces the records for o with recs, which must be best first.
func (s *SQLite) Save(ctx context.Context, o blocks.Objective, recs []blocks.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE objective = ?`, o.RecordName()); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (objective, rank, score, tie_break, arrangement, tag)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, r := range recs {
		if _, err := stmt.ExecContext(ctx, o.RecordName(), i, r.Primary, r.TieBreak, r.Arrangement, r.Tag); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// AddIterations adds n to the iteration total of strategy and returns the new
// total.
func (s *SQLite) AddIterations(ctx context.Context, strategy string, n int) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO iterations (strategy, total) VALUES (?, ?)
		 ON CONFLICT(strategy) DO UPDATE SET total = total + excluded.total
		 RETURNING total`,
		strategy, n).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("add iterations: %w", err)
	}
	return total, nil
}

// Iterations returns the iteration total of strategy, zero if it never ran.
func (s *SQLite) Iterations(ctx context.Context, strategy string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT total FROM iterations WHERE strategy = ?`, strategy).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query iterations: %w", err)
	}
	return total, nil
}
