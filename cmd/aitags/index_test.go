package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/aitags/pkg/index"
)

var indexFixture = map[string]string{
	"b.ts":      "// @AI:EXPIRY 2027-01-01 KST\n",
	"a.py":      "x = 1\n# @AI:EXPIRY 2026-12-31\n# @AI:SYNC ./b.ts\n",
	"docs/n.md": "```\n// @AI:EXPIRY 2020-01-01\n```\n",
	"dist/x.js": "// @AI:EXPIRY 2020-01-01\n",
}

func resetIndexFlags() {
	configFile = ""
	colorMode = "never"
	indexFormat = "human"
	indexKeys = index.DefaultKeys
}

func TestRunIndex_JSON(t *testing.T) {
	// Arrange
	resetIndexFlags()
	dir := writeFiles(t, indexFixture)
	indexFormat = "json"
	cmd, out, _ := newTestCmd()

	// Act
	err := runIndex(cmd, []string{dir})

	// Assert
	require.NoError(t, err)
	var groups []index.Group
	require.NoError(t, json.Unmarshal(out.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "@AI:EXPIRY", groups[0].Key)
	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "2026-12-31", groups[0].Entries[0].Payload)
	assert.Equal(t, 1, groups[0].Entries[0].Line)
	assert.Equal(t, "2027-01-01 KST", groups[0].Entries[1].Payload)
}

func TestRunIndex_CustomKeysYAML(t *testing.T) {
	resetIndexFlags()
	dir := writeFiles(t, indexFixture)
	indexFormat = "yaml"
	indexKeys = []string{"@AI:EXPIRY", "@AI:SYNC"}
	cmd, out, _ := newTestCmd()

	err := runIndex(cmd, []string{dir})

	require.NoError(t, err)
	var groups []index.Group
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "@AI:SYNC", groups[1].Key)
	assert.Equal(t, "./b.ts", groups[1].Entries[0].Payload)
}

func TestRunIndex_Human(t *testing.T) {
	resetIndexFlags()
	dir := writeFiles(t, indexFixture)
	cmd, out, _ := newTestCmd()

	err := runIndex(cmd, []string{dir})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "@AI:EXPIRY (2)")
	assert.Contains(t, out.String(), ":2  2026-12-31")
}

func TestRunIndex_Empty(t *testing.T) {
	resetIndexFlags()
	dir := writeFiles(t, map[string]string{"a.go": "package a\n"})
	cmd, out, _ := newTestCmd()

	err := runIndex(cmd, []string{dir})

	require.NoError(t, err)
	assert.Equal(t, "No tags indexed.\n", out.String())
}
