package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

var ErrInvalidName = errors.New("invalid asset name")

// ============================================================
// File Storage
// ============================================================

// Storage открывает ресурсы планов этажей из корневого каталога.
type Storage struct {
	root fs.FS
}

// NewFileStorage roots the storage at a directory on disk.
func NewFileStorage(root string) *Storage {
	return &Storage{root: os.DirFS(root)}
}

// NewFSStorage roots the storage at any fs.FS (embed, fstest.MapFS).
func NewFSStorage(root fs.FS) *Storage {
	return &Storage{root: root}
}

// Open returns a stream for the named asset, e.g. "floor2.svg".
func (s *Storage) Open(name string) (io.ReadCloser, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) || clean == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	f, err := s.root.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", clean, err)
	}
	return f, nil
}
