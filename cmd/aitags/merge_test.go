package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// newMergeCmd creates a fresh merge command for testing
func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "merge <source1.db> <source2.db> [source3.db...]",
		Args: cobra.MinimumNArgs(2),
		RunE: runMerge,
	}
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "Output database path")
	return cmd
}

func writeStore(t *testing.T, path string, findings map[string][]*types.Finding) {
	t.Helper()
	s, err := store.New(store.Config{Path: path})
	require.NoError(t, err)
	for file, fs := range findings {
		require.NoError(t, s.ReplaceFindings(file, fs))
	}
	require.NoError(t, s.Close())
}

func TestMergeCmd_RequiresMinimumArgs(t *testing.T) {
	cmd := newMergeCmd()
	cmd.SetArgs([]string{"source1.db"})

	err := cmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg")
}

func TestMergeCmd_MergesTwoDatabases(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	source1 := filepath.Join(tmpDir, "source1.db")
	source2 := filepath.Join(tmpDir, "source2.db")
	writeStore(t, source1, map[string][]*types.Finding{
		"/ws/a.ts": {finding("/ws/a.ts", 0, types.KindExpiry, "@AI:EXPIRY expired on 2020-01-01 UTC")},
		"/ws/b.ts": {finding("/ws/b.ts", 1, types.KindExpiry, "@AI:EXPIRY expired on 2020-01-01 UTC")},
	})
	writeStore(t, source2, map[string][]*types.Finding{
		"/ws/b.ts": {finding("/ws/b.ts", 7, types.KindSync, "@AI:SYNC target not found: /ws/c.ts")},
	})
	destPath := filepath.Join(tmpDir, "merged.db")
	var buf bytes.Buffer
	cmd := newMergeCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{source1, source2, "--output", destPath})

	// Act
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Merge complete")
	assert.Contains(t, output, "Sources processed: 2")
	assert.Contains(t, output, "Output: "+destPath)

	dest, err := store.New(store.Config{Path: destPath})
	require.NoError(t, err)
	defer dest.Close()
	b, err := dest.GetFindings("/ws/b.ts")
	require.NoError(t, err)
	require.Len(t, b, 1)
	assert.Equal(t, types.KindSync, b[0].Kind)
	all, err := dest.GetAllFindings()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMergeCmd_FailsWithInvalidSource(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "merged.db")
	cmd := newMergeCmd()
	cmd.SetArgs([]string{"/nonexistent/source1.db", "/nonexistent/source2.db", "--output", destPath})

	err := cmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "merge failed")
}
