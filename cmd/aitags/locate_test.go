//go:build cgo

package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/aitags/pkg/types"
)

const serviceSource = `package svc

type Service struct{}

func (s *Service) Run() {}
`

func TestRunLocate_Found(t *testing.T) {
	// Arrange
	configFile = ""
	locateFormat = "json"
	dir := writeFiles(t, map[string]string{"svc.go": serviceSource})
	cmd, out, _ := newTestCmd()

	// Act
	err := runLocate(cmd, []string{filepath.Join(dir, "svc.go"), "Service.Run"})

	// Assert
	require.NoError(t, err)
	var loc types.SymbolLocation
	require.NoError(t, json.Unmarshal(out.Bytes(), &loc))
	assert.Equal(t, types.SymbolFound, loc.Status)
	assert.Equal(t, 4, loc.Line)
	assert.Equal(t, 18, loc.Column)
}

func TestRunLocate_Human(t *testing.T) {
	configFile = ""
	locateFormat = "human"
	dir := writeFiles(t, map[string]string{"svc.go": serviceSource})
	cmd, out, _ := newTestCmd()

	err := runLocate(cmd, []string{filepath.Join(dir, "svc.go"), "Service"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "svc.go:3:6")
}

func TestRunLocate_NotFound(t *testing.T) {
	configFile = ""
	locateFormat = "human"
	dir := writeFiles(t, map[string]string{"svc.go": serviceSource})
	cmd, _, _ := newTestCmd()

	err := runLocate(cmd, []string{filepath.Join(dir, "svc.go"), "Service.Stop"})

	require.Error(t, err)
	assert.Equal(t, "symbol not found: Service.Stop", err.Error())
}
