package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjy-dev/vcov/internal/logger"

	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite via modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and initializes the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", dir, err)
		}
	}

	dsn := dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Debug("[History] opened %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS evaluations (
    id TEXT PRIMARY KEY,
    before_path TEXT NOT NULL DEFAULT '',
    after_path TEXT NOT NULL DEFAULT '',
    coverage_before REAL NOT NULL DEFAULT 0,
    coverage_after REAL NOT NULL DEFAULT 0,
    coverage_delta REAL NOT NULL DEFAULT 0,
    points_delta INTEGER NOT NULL DEFAULT 0,
    new_lines INTEGER NOT NULL DEFAULT 0,
    reward REAL NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Record stores a new evaluation.
func (s *SQLiteStore) Record(ctx context.Context, r *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, before_path, after_path, coverage_before, coverage_after,
		   coverage_delta, points_delta, new_lines, reward, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BeforePath, r.AfterPath, r.CoverageBefore, r.CoverageAfter,
		r.CoverageDelta, r.PointsDelta, r.NewLines, r.Reward, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, before_path, after_path, coverage_before, coverage_after,
		        coverage_delta, points_delta, new_lines, reward, created_at
		 FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.BeforePath, &r.AfterPath, &r.CoverageBefore, &r.CoverageAfter,
			&r.CoverageDelta, &r.PointsDelta, &r.NewLines, &r.Reward, &createdAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, &r)
	}
	return records, rows.Err()
}

// Trend computes the trend over the last window records.
func (s *SQLiteStore) Trend(ctx context.Context, window int) (Trend, error) {
	records, err := s.List(ctx, window)
	if err != nil {
		return Trend{}, err
	}
	return CalculateTrend(records), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
