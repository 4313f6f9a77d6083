package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/careerpath/internal/model"
)

const defaultListLimit = 20

// SQLiteStore keeps a history of generations in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// generations table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	// created_at is unix milliseconds so ordering and cutoffs are plain integer
	// comparisons.
	schema := []string{
		`CREATE TABLE IF NOT EXISTS generations (
			id          TEXT PRIMARY KEY,
			operation   TEXT NOT NULL,
			source      TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			payload     TEXT NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations (created_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating generations table: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Record stores rec. Recording the same id twice replaces the earlier row.
func (s *SQLiteStore) Record(ctx context.Context, rec model.GenerationRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (id, operation, source, duration_ms, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Operation), string(rec.Source), rec.Duration.Milliseconds(), string(rec.Payload), createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording generation %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent generations, newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]model.GenerationRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, operation, source, duration_ms, payload, created_at FROM generations`
	args := []any{}
	if opts.Operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, string(opts.Operation))
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var records []model.GenerationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("listing generations: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	return records, nil
}

// Get returns the generation with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.GenerationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, operation, source, duration_ms, payload, created_at FROM generations WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GenerationRecord{}, ErrNotFound
	}
	if err != nil {
		return model.GenerationRecord{}, fmt.Errorf("getting generation %s: %w", id, err)
	}
	return rec, nil
}

// Cleanup deletes generations older than the given duration and returns how
// many were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, "DELETE FROM generations WHERE created_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("cleaning up generations older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleaning up generations: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (model.GenerationRecord, error) {
	var (
		rec        model.GenerationRecord
		operation  string
		source     string
		durationMS int64
		payload    string
		createdAt  int64
	)
	if err := row.Scan(&rec.ID, &operation, &source, &durationMS, &payload, &createdAt); err != nil {
		return model.GenerationRecord{}, err
	}
	rec.Operation = model.Operation(operation)
	rec.Source = model.Source(source)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Payload = []byte(payload)
	rec.CreatedAt = time.UnixMilli(createdAt)
	return rec, nil
}
