package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/types"
)

func TestMerge_EmptySources(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{},
		DestPath:    filepath.Join(t.TempDir(), "dest.db"),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no source databases")
}

func TestMerge_NoDestination(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{"source.db"},
		DestPath:    "",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "destination path is required")
}

func seedDB(t *testing.T, path string, scanID string, findings map[string][]*types.Finding) {
	t.Helper()
	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	for p, fs := range findings {
		require.NoError(t, s.ReplaceFindings(p, fs))
	}
	now := time.Now()
	require.NoError(t, s.AddScan(ScanRun{ID: scanID, Root: "/ws", StartedAt: now, FinishedAt: now}))
}

func TestMerge_MultipleSources(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first.db")
	second := filepath.Join(tmpDir, "second.db")
	dest := filepath.Join(tmpDir, "dest.db")

	seedDB(t, first, "scan-1", map[string][]*types.Finding{
		"/ws/a.ts": {finding("/ws/a.ts", 1, "old a"), finding("/ws/a.ts", 2, "old a2")},
		"/ws/b.ts": {finding("/ws/b.ts", 1, "b")},
	})
	seedDB(t, second, "scan-2", map[string][]*types.Finding{
		"/ws/a.ts": {finding("/ws/a.ts", 8, "new a")},
	})

	// Act
	stats, err := Merge(MergeConfig{SourcePaths: []string{first, second}, DestPath: dest})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourcesProcessed)
	assert.Equal(t, 4, stats.FindingsMerged)
	assert.Equal(t, 2, stats.ScansMerged)

	merged, err := NewSQLite(dest)
	require.NoError(t, err)
	defer merged.Close()

	a, err := merged.GetFindings("/ws/a.ts")
	require.NoError(t, err)
	require.Len(t, a, 1, "later source replaces the path")
	assert.Equal(t, "new a", a[0].Message)

	b, err := merged.GetFindings("/ws/b.ts")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}
