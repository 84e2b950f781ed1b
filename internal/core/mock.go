package core

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. It tracks contents,
// modes and modification times, and lets tests inject errors per operation.
type MockFileSystem struct {
	mu    sync.Mutex
	files map[string]*mockFile

	// Now returns the time recorded on writes. Defaults to time.Now.
	Now func() time.Time

	ReadErr    error
	WriteErr   error
	StatErr    error
	ChtimesErr error

	// Writes counts successful WriteFile calls.
	Writes int
}

type mockFile struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMockFileSystem returns an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string]*mockFile),
		Now:   time.Now,
	}
}

// SetFile stores data at name with default mode and the current mock time.
func (m *MockFileSystem) SetFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &mockFile{data: bytes.Clone(data), mode: PermDefaultFile, modTime: m.Now()}
}

// GetFile returns the contents stored at name.
func (m *MockFileSystem) GetFile(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(f.data), true
}

// SetModTime overrides the modification time of an existing file.
func (m *MockFileSystem) SetModTime(name string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[name]; ok {
		f.modTime = t
	}
}

// ModTime returns the modification time of name, or the zero time.
func (m *MockFileSystem) ModTime(name string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[name]; ok {
		return f.modTime
	}
	return time.Time{}
}

func (m *MockFileSystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, err := m.ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	f, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(f.data), nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.files[name] = &mockFile{data: bytes.Clone(data), mode: perm, modTime: m.Now()}
	m.Writes++
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	f, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return mockFileInfo{name: path.Base(name), size: int64(len(f.data)), mode: f.mode, modTime: f.modTime}, nil
}

func (m *MockFileSystem) Chtimes(ctx context.Context, name string, _, mtime time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChtimesErr != nil {
		return m.ChtimesErr
	}
	f, ok := m.files[name]
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: fs.ErrNotExist}
	}
	f.modTime = mtime
	return nil
}

type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (i mockFileInfo) Name() string       { return i.name }
func (i mockFileInfo) Size() int64        { return i.size }
func (i mockFileInfo) Mode() fs.FileMode  { return i.mode }
func (i mockFileInfo) ModTime() time.Time { return i.modTime }
func (i mockFileInfo) IsDir() bool        { return false }
func (i mockFileInfo) Sys() any           { return nil }
