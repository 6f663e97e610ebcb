package traverse

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/afero"

	"github.com/idelchi/dirscan/internal/resource"
)

// FileSystem is the filesystem access collaborator of a walk.
type FileSystem interface {
	// Stat returns the metadata of the entry at path without following a final symlink.
	Stat(path string) (resource.Metadata, error)
	// ReadDir returns the names of the immediate entries of the directory at path.
	ReadDir(path string) ([]string, error)
}

// aferoFS adapts an afero.Fs to FileSystem.
type aferoFS struct {
	fs afero.Fs
}

// NewFileSystem returns a FileSystem backed by fsys.
func NewFileSystem(fsys afero.Fs) FileSystem {
	return aferoFS{fs: fsys}
}

// OS returns a FileSystem backed by the operating system.
func OS() FileSystem {
	return NewFileSystem(afero.NewOsFs())
}

// lstat uses Lstat when the underlying filesystem supports it.
func (a aferoFS) lstat(path string) (fs.FileInfo, error) {
	if l, ok := a.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)

		return info, err
	}

	return a.fs.Stat(path)
}

// Stat implements FileSystem.
func (a aferoFS) Stat(path string) (resource.Metadata, error) {
	info, err := a.lstat(path)
	if err != nil {
		return resource.Metadata{}, fmt.Errorf("reading metadata of %q: %w", path, err)
	}

	targetIsDir := false

	if info.Mode()&fs.ModeSymlink != 0 {
		// Dangling links are reported as files.
		if target, err := a.fs.Stat(path); err == nil {
			targetIsDir = target.IsDir()
		}
	}

	return resource.FromFileInfo(path, info, targetIsDir), nil
}

// ReadDir implements FileSystem. Names are returned sorted.
func (a aferoFS) ReadDir(path string) ([]string, error) {
	dir, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening directory %q: %w", path, err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("listing directory %q: %w", path, err)
	}

	sort.Strings(names)

	return names, nil
}
