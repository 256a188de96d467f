package types

import (
	"io/fs"
)

// FS is the filesystem interface required for stor operations.
// The merge engine never touches the OS directly; everything goes
// through this seam so tests can substitute an in-memory tree.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Lstat reports on the entry itself, never following symlinks
	Lstat(name string) (fs.FileInfo, error)

	// Removal operations
	Remove(name string) error
	RemoveAll(path string) error
}
