package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anindilla/fix-my-form/internal/analysis"
)

// SQLiteStore is a ReportStore backed by a SQLite database. The report
// body is stored as JSON; exercise and score are broken out into columns
// for querying.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at dbPath and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// runMigrations executes all database migrations.
func (s *SQLiteStore) runMigrations() error {
	migrations := []string{
		// Reports table - one row per completed analysis
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			exercise TEXT NOT NULL,
			overall_score INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reports_exercise ON reports(exercise)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put stores a report under the given ID, replacing any previous one.
func (s *SQLiteStore) Put(id string, report *analysis.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO reports (id, exercise, overall_score, body, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			exercise = excluded.exercise,
			overall_score = excluded.overall_score,
			body = excluded.body`,
		id, string(report.Exercise), report.OverallScore, string(body), time.Now(),
	)
	return err
}

// Get retrieves a report by ID.
func (s *SQLiteStore) Get(id string) (*analysis.Report, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	report := &analysis.Report{}
	if err := json.Unmarshal([]byte(body), report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return report, nil
}

// Delete removes a report by ID.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the stored report IDs, newest first.
func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
