package storage

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory FileSystem. Paths are slash separated and cleaned;
// directories are implied by the files beneath them or created by MkdirAll.
type MemFS struct {
	mu    sync.Mutex
	files map[string]memFile
	dirs  map[string]bool
	now   func() time.Time
}

type memFile struct {
	data  []byte
	mtime int64
}

var _ FileSystem = (*MemFS)(nil)

// NewMemFS returns an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]memFile),
		dirs:  make(map[string]bool),
		now:   time.Now,
	}
}

// SetClock replaces the clock used to stamp written files.
func (m *MemFS) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Put stores a file with an explicit modification time.
func (m *MemFS) Put(p string, data []byte, mtime int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = memFile{data: append([]byte(nil), data...), mtime: mtime}
}

// Len returns the number of files stored.
func (m *MemFS) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// IsDir reports whether p was created with MkdirAll or has files beneath it.
func (m *MemFS) IsDir(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDir(path.Clean(p))
}

func (m *MemFS) isDir(p string) bool {
	if m.dirs[p] {
		return true
	}
	prefix := strings.TrimSuffix(p, "/") + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

func (m *MemFS) Stat(p string) (bool, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if f, ok := m.files[p]; ok {
		return true, f.mtime
	}
	return m.isDir(p), 0
}

func (m *MemFS) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

func (m *MemFS) WriteFile(p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if m.dirs[p] {
		return &fs.PathError{Op: "write", Path: p, Err: fmt.Errorf("is a directory")}
	}
	m.files[p] = memFile{data: append([]byte(nil), data...), mtime: m.now().Unix()}
	return nil
}

func (m *MemFS) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := path.Clean(p); d != "/" && d != "."; d = path.Dir(d) {
		if _, ok := m.files[d]; ok {
			return &fs.PathError{Op: "mkdir", Path: d, Err: fmt.Errorf("not a directory")}
		}
		m.dirs[d] = true
	}
	return nil
}

func (m *MemFS) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	prefix := p + "/"
	delete(m.files, p)
	delete(m.dirs, p)
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldpath, newpath = path.Clean(oldpath), path.Clean(newpath)
	f, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = f
	return nil
}
