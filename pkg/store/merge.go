package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	FindingsMerged   int
	ScansMerged      int
	SourcesProcessed int
}

// Merge combines multiple finding databases into one.
// Later sources replace the findings of any path they also contain, so
// each path keeps the findings of exactly one scan.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	// Open/create destination database
	destDB, err := sql.Open("sqlite", cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	// Initialize schema on destination
	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}

	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.FindingsMerged += sourceStats.FindingsMerged
		stats.ScansMerged += sourceStats.ScansMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies data from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open("sqlite", sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	stats := &MergeStats{}

	// Start transaction for efficiency
	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	findingCount, err := mergeFindings(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging findings: %w", err)
	}
	stats.FindingsMerged = findingCount

	scanCount, err := mergeScans(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging scans: %w", err)
	}
	stats.ScansMerged = scanCount

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return stats, nil
}

func mergeFindings(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	rows, err := sourceDB.Query(`
		SELECT id, path, kind, severity, message, line, start_char, end_char
		FROM findings
		ORDER BY path
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	clearStmt, err := tx.Prepare("DELETE FROM findings WHERE path = ?")
	if err != nil {
		return 0, err
	}
	defer clearStmt.Close()

	insert, err := tx.Prepare(`
		INSERT OR IGNORE INTO findings (id, path, kind, severity, message, line, start_char, end_char)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer insert.Close()

	count := 0
	lastPath := ""
	first := true
	for rows.Next() {
		var id, path, kind, severity, message string
		var line, startChar, endChar int
		if err := rows.Scan(&id, &path, &kind, &severity, &message, &line, &startChar, &endChar); err != nil {
			return count, err
		}

		if first || path != lastPath {
			if _, err := clearStmt.Exec(path); err != nil {
				return count, err
			}
			lastPath = path
			first = false
		}

		result, err := insert.Exec(id, path, kind, severity, message, line, startChar, endChar)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}

func mergeScans(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	rows, err := sourceDB.Query("SELECT id, root, started_at, finished_at, files, findings FROM scans")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO scans (id, root, started_at, finished_at, files, findings)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for rows.Next() {
		var id, root, startedAt, finishedAt string
		var files, findings int
		if err := rows.Scan(&id, &root, &startedAt, &finishedAt, &files, &findings); err != nil {
			return count, err
		}
		result, err := stmt.Exec(id, root, startedAt, finishedAt, files, findings)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
