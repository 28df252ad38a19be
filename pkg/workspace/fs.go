package workspace

import (
	"context"
	"os"
)

// FileInfo is the subset of stat data the resolver needs.
type FileInfo struct {
	IsDir bool
	Size  int64
}

// DirEntry is one immediate child of a directory.
type DirEntry struct {
	Name   string
	IsFile bool
}

// FileSystem is the file-system surface the resolver probes.
type FileSystem interface {
	Stat(ctx context.Context, path string) (FileInfo, error)
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)
}

// OSFileSystem reads the local disk.
type OSFileSystem struct{}

// Stat follows symlinks.
func (OSFileSystem) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{IsDir: info.IsDir(), Size: info.Size()}, nil
}

// ReadDir lists entries sorted by name. IsFile is true for regular files only.
func (OSFileSystem) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), IsFile: e.Type().IsRegular()})
	}
	return out, nil
}
