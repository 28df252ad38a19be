// Package store persists findings per document.
package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// Store provides persistence for scan results.
// Findings are owned per document path: a write replaces everything
// previously stored for that path.
type Store interface {
	// ReplaceFindings replaces the findings for path. An empty slice
	// clears the path.
	ReplaceFindings(path string, findings []*types.Finding) error

	// GetFindings retrieves the findings for one path.
	GetFindings(path string) ([]*types.Finding, error)

	// GetAllFindings retrieves every finding ordered by path, line and column.
	GetAllFindings() ([]*types.Finding, error)

	// Paths lists the paths that currently have findings, sorted.
	Paths() ([]string, error)

	// DeleteFindings removes the findings for path.
	DeleteFindings(path string) error

	// Clear removes all findings.
	Clear() error

	// AddScan records a completed scan run.
	AddScan(run ScanRun) error

	// LatestScan returns the most recently started scan run, or nil.
	LatestScan() (*ScanRun, error)

	// Close closes the underlying storage.
	Close() error
}

// ScanRun summarizes one workspace scan.
type ScanRun struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Files      int       `json:"files"`
	Findings   int       `json:"findings"`
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-process store (useful for testing).
	Path string
}

// New creates a new Store. ":memory:" yields a MemoryStore; any other
// path opens a SQLite database.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}

// sortFindings orders findings by path, then line, then start column.
func sortFindings(findings []*types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Span.Line != b.Span.Line {
			return a.Span.Line < b.Span.Line
		}
		return a.Span.StartChar < b.Span.StartChar
	})
}
