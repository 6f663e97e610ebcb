// Package resource describes a single filesystem entry as seen by a walk.
package resource

import (
	"io/fs"
	"path"
	"path/filepath"
	"time"
)

// Kind classifies a resource.
type Kind uint8

const (
	// KindFile is a regular file or any other non-directory entry.
	KindFile Kind = iota
	// KindDirectory is a directory that is not a symlink.
	KindDirectory
	// KindSymlink is a symbolic link, regardless of what it points to.
	KindSymlink
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Metadata is an immutable record of one filesystem entry.
// It is passed by value; consumers never share or mutate it.
type Metadata struct {
	// Path is the absolute, slash-separated path of the entry.
	Path string `json:"path"`
	// IsDir reports whether the entry (or, for a symlink, its target) is a directory.
	IsDir bool `json:"is_dir"`
	// IsSymlink reports whether the entry itself is a symbolic link.
	IsSymlink bool `json:"is_symlink"`
	// Inode is the filesystem identifier of the entry, 0 when unknown.
	Inode uint64 `json:"inode,omitempty"`
	// Size is the size in bytes of the entry itself.
	Size uint64 `json:"size"`
	// ModTime is the modification time, zero when unknown.
	ModTime time.Time `json:"modified,omitzero"`
}

// Kind returns the tagged kind of the resource.
// Symlinks are KindSymlink even when they point at a directory.
func (m Metadata) Kind() Kind {
	switch {
	case m.IsSymlink:
		return KindSymlink
	case m.IsDir:
		return KindDirectory
	default:
		return KindFile
	}
}

// Name returns the last segment of the path.
func (m Metadata) Name() string {
	return path.Base(m.Path)
}

// FromFileInfo builds a Metadata from the result of an lstat call.
// targetIsDir reports whether a symlink's target is a directory and is ignored otherwise.
func FromFileInfo(p string, info fs.FileInfo, targetIsDir bool) Metadata {
	symlink := info.Mode()&fs.ModeSymlink != 0

	isDir := info.IsDir()
	if symlink {
		isDir = targetIsDir
	}

	var size uint64
	if info.Size() > 0 {
		size = uint64(info.Size())
	}

	return Metadata{
		Path:      filepath.ToSlash(p),
		IsDir:     isDir,
		IsSymlink: symlink,
		Inode:     inode(info),
		Size:      size,
		ModTime:   info.ModTime(),
	}
}
