package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/config"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// resolveWorkspace sandboxes resolution to dir through a config file.
func resolveWorkspace(t *testing.T, dir string) {
	t.Helper()
	configFile = filepath.Join(t.TempDir(), config.FileName)
	writeConfig(t, configFile, "workspace:\n  folders:\n    - "+dir+"\n")
	colorMode = "never"
	resolveExpandDirectories = false
	resolveFormat = "human"
}

func TestRunResolve_Human(t *testing.T) {
	// Arrange
	dir := writeFiles(t, map[string]string{
		"src/a.ts":    "// @AI:SYNC ./b.ts:L2-L4\n",
		"src/b.ts":    "export {}\n",
		"lib/util.ts": "export {}\n",
	})
	resolveWorkspace(t, dir)
	cmd, out, _ := newTestCmd()

	// Act
	err := runResolve(cmd, []string{filepath.Join(dir, "src", "a.ts"), "./b.ts:L2-L4, lib/, ../../outside.ts"})

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "./b.ts -> ")
	assert.Contains(t, output, "b.ts:L2-L4")
	assert.Contains(t, output, "(folder)")
	assert.Contains(t, output, "missing ../../outside.ts: path is outside workspace root")
}

func TestRunResolve_JSONExpandDirectories(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/a.ts":   "",
		"lib/one.ts": "",
		"lib/two.ts": "",
	})
	resolveWorkspace(t, dir)
	resolveFormat = "json"
	resolveExpandDirectories = true
	cmd, out, _ := newTestCmd()

	err := runResolve(cmd, []string{filepath.Join(dir, "src", "a.ts"), "lib/#Service"})

	require.NoError(t, err)
	var targets []types.ResolvedTarget
	require.NoError(t, json.Unmarshal(out.Bytes(), &targets))
	require.Len(t, targets, 2)
	for _, target := range targets {
		assert.Equal(t, types.TargetOK, target.Status)
		assert.True(t, target.FromDirectory)
		assert.Equal(t, "Service", target.Symbol)
	}
}

func TestRunResolve_EmptyPayload(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.ts": ""})
	resolveWorkspace(t, dir)
	cmd, out, _ := newTestCmd()

	err := runResolve(cmd, []string{filepath.Join(dir, "a.ts"), " , "})

	require.NoError(t, err)
	assert.Equal(t, "No targets.\n", out.String())
}

func TestRunResolve_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	resolveWorkspace(t, dir)
	cmd, _, _ := newTestCmd()

	err := runResolve(cmd, []string{filepath.Join(dir, "nope.ts"), "a.ts"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening document")
}
