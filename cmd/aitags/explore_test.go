package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExploreCommand_MissingDatastore(t *testing.T) {
	// Arrange
	exploreDatastore = filepath.Join(t.TempDir(), "missing.db")
	t.Cleanup(func() { exploreDatastore = "aitags.db" })

	// Act
	err := runExplore(exploreCmd, nil)

	// Assert
	assert.ErrorContains(t, err, "datastore not found")
}

func TestExploreCommand_InMemoryRejected(t *testing.T) {
	exploreDatastore = ":memory:"
	t.Cleanup(func() { exploreDatastore = "aitags.db" })

	err := runExplore(exploreCmd, nil)

	assert.ErrorContains(t, err, "cannot explore an in-memory store")
}
