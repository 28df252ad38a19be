package store

import (
	"sort"
	"sync"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu       sync.RWMutex
	findings map[string][]*types.Finding // keyed by document path
	scans    []ScanRun
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		findings: make(map[string][]*types.Finding),
	}
}

// ReplaceFindings replaces the findings for path.
func (m *MemoryStore) ReplaceFindings(path string, findings []*types.Finding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(findings) == 0 {
		delete(m.findings, path)
		return nil
	}

	m.findings[path] = cloneFindings(findings)
	return nil
}

// GetFindings retrieves the findings for one path.
func (m *MemoryStore) GetFindings(path string) ([]*types.Finding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneFindings(m.findings[path]), nil
}

// GetAllFindings retrieves every finding ordered by path, line and column.
func (m *MemoryStore) GetAllFindings() ([]*types.Finding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*types.Finding
	for _, findings := range m.findings {
		all = append(all, cloneFindings(findings)...)
	}
	sortFindings(all)
	return all, nil
}

// Paths lists the paths that currently have findings.
func (m *MemoryStore) Paths() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.findings))
	for path := range m.findings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// DeleteFindings removes the findings for path.
func (m *MemoryStore) DeleteFindings(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.findings, path)
	return nil
}

// Clear removes all findings. Recorded scans are kept.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findings = make(map[string][]*types.Finding)
	return nil
}

// AddScan records a completed scan run.
func (m *MemoryStore) AddScan(run ScanRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans = append(m.scans, run)
	return nil
}

// LatestScan returns the most recently started scan run.
func (m *MemoryStore) LatestScan() (*ScanRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *ScanRun
	for i := range m.scans {
		if latest == nil || !m.scans[i].StartedAt.Before(latest.StartedAt) {
			run := m.scans[i]
			latest = &run
		}
	}
	return latest, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func cloneFindings(findings []*types.Finding) []*types.Finding {
	if len(findings) == 0 {
		return nil
	}
	out := make([]*types.Finding, len(findings))
	for i, f := range findings {
		c := *f
		out[i] = &c
	}
	return out
}
