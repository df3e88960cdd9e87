package storage

import "os"

// OSFileSystem implements FileSystem using the real filesystem.
type OSFileSystem struct{}

var _ FileSystem = (*OSFileSystem)(nil)

func (OSFileSystem) Stat(path string) (bool, int64) {
	info, err := os.Stat(path)
	if err != nil {
		return false, 0
	}
	return true, info.ModTime().Unix()
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 -- paths come from site configuration
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
