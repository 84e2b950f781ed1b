// Package core holds the low-level abstractions shared by the stamp packages:
// the filesystem seam, serialization seam and common permission constants.
package core

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"
)

// File permission constants.
const (
	// PermOwnerRW is owner read/write only, used for files stamp creates itself.
	PermOwnerRW fs.FileMode = 0o600

	// PermDefaultFile is used when a target's original mode cannot be determined.
	PermDefaultFile fs.FileMode = 0o644
)

// FileSystem abstracts the file operations the engine needs so that the scan
// and update passes can run against an in-memory implementation in tests.
type FileSystem interface {
	// Open opens path for reading. The caller closes the returned reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	// Chtimes sets the access and modification times of path.
	Chtimes(ctx context.Context, path string, atime, mtime time.Time) error
}

// Marshaler abstracts serialization so savers can be tested without a real encoder.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

// NewOSFileSystem returns the production FileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

func (OSFileSystem) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Chtimes(path, atime, mtime)
}

// Exists reports whether path can be stat'ed through fsys.
func Exists(ctx context.Context, fsys FileSystem, path string) bool {
	_, err := fsys.Stat(ctx, path)
	return err == nil
}
