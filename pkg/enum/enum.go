// Package enum discovers workspace files that may carry tags.
package enum

import "context"

// Enumerator discovers content to scan from a source.
type Enumerator interface {
	// Enumerate yields text files from the source.
	// The callback receives the file content and its path. It may be called
	// from several goroutines at once.
	Enumerate(ctx context.Context, callback func(content []byte, path string) error) error
}

// DefaultExclude lists directory names skipped during workspace scans.
var DefaultExclude = []string{"node_modules", ".git", "dist", "out", "build", "coverage", ".vscode"}

// DefaultMaxFileSize is the largest file read during workspace scans (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Exclude lists directory names that are never descended into,
	// wherever they appear below Root.
	Exclude []string

	// SkipUnreadable skips files that fail to read instead of aborting.
	SkipUnreadable bool
}
