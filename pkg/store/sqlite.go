package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	// Initialize schema
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ReplaceFindings replaces the findings for path in one transaction.
func (s *SQLiteStore) ReplaceFindings(path string, findings []*types.Finding) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM findings WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting findings: %w", err)
	}

	if len(findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO findings (id, path, kind, severity, message, line, start_char, end_char)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range findings {
			_, err := stmt.Exec(
				f.ID,
				path,
				string(f.Kind),
				string(f.Severity),
				f.Message,
				f.Span.Line,
				f.Span.StartChar,
				f.Span.EndChar,
			)
			if err != nil {
				return fmt.Errorf("inserting finding: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetFindings retrieves the findings for one path.
func (s *SQLiteStore) GetFindings(path string) ([]*types.Finding, error) {
	rows, err := s.db.Query(`
		SELECT id, path, kind, severity, message, line, start_char, end_char
		FROM findings
		WHERE path = ?
		ORDER BY line, start_char
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	return scanFindings(rows)
}

// GetAllFindings retrieves every finding ordered by path, line and column.
func (s *SQLiteStore) GetAllFindings() ([]*types.Finding, error) {
	rows, err := s.db.Query(`
		SELECT id, path, kind, severity, message, line, start_char, end_char
		FROM findings
		ORDER BY path, line, start_char
	`)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	return scanFindings(rows)
}

func scanFindings(rows *sql.Rows) ([]*types.Finding, error) {
	defer rows.Close()

	var findings []*types.Finding
	for rows.Next() {
		var f types.Finding
		var kind, severity string

		err := rows.Scan(
			&f.ID,
			&f.Path,
			&kind,
			&severity,
			&f.Message,
			&f.Span.Line,
			&f.Span.StartChar,
			&f.Span.EndChar,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}

		parsed, ok := types.ParseTagKind(kind)
		if !ok {
			return nil, fmt.Errorf("unknown finding kind %q", kind)
		}
		f.Kind = parsed
		f.Severity = types.Severity(severity)

		findings = append(findings, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating findings: %w", err)
	}

	return findings, nil
}

// Paths lists the paths that currently have findings.
func (s *SQLiteStore) Paths() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT path FROM findings ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("querying paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// DeleteFindings removes the findings for path.
func (s *SQLiteStore) DeleteFindings(path string) error {
	if _, err := s.db.Exec("DELETE FROM findings WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting findings: %w", err)
	}
	return nil
}

// Clear removes all findings. Recorded scans are kept.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM findings"); err != nil {
		return fmt.Errorf("clearing findings: %w", err)
	}
	return nil
}

// AddScan records a completed scan run.
func (s *SQLiteStore) AddScan(run ScanRun) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO scans (id, root, started_at, finished_at, files, findings)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Root,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Files,
		run.Findings,
	)
	if err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}
	return nil
}

// LatestScan returns the most recently started scan run, or nil.
func (s *SQLiteStore) LatestScan() (*ScanRun, error) {
	var run ScanRun
	var startedAt, finishedAt string

	err := s.db.QueryRow(`
		SELECT id, root, started_at, finished_at, files, findings
		FROM scans
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.Root, &startedAt, &finishedAt, &run.Files, &run.Findings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest scan: %w", err)
	}

	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &run, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
