// Package storage is the file collaborator of asset resolution and image
// variant generation. OSFileSystem works on the real filesystem. MemFS is a
// complete in-memory backend with controllable modification times, for
// callers that render from generated or embedded files and for tests.
package storage

// FileSystem abstracts the filesystem operations asset resolution and image
// variant generation need.
type FileSystem interface {
	// Stat reports whether path exists and its modification time in unix seconds.
	Stat(path string) (exists bool, mtime int64)

	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or overwrites a file at the given path with the given data.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory path and all necessary parents.
	MkdirAll(path string) error

	// RemoveAll deletes a file or directory (recursively). A missing path is not an error.
	RemoveAll(path string) error

	// Rename moves oldpath to newpath, replacing newpath if it exists.
	Rename(oldpath, newpath string) error
}
