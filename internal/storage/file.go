package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ierr "github.com/printstudio/docengine/internal/errors"
)

// FileStore writes each key to its own JSON file under a directory.
// Writes go to a temp file first and are renamed into place.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ierr.NewError("file storage directory is empty").
			WithHint("Set storage.file.dir").
			Mark(ierr.ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageFailed(err, "mkdir", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, storageFailed(err, "read", key)
	}
	return data, nil
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return storageFailed(err, "create temp", key)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return storageFailed(err, "write", key)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storageFailed(err, "sync", key)
	}
	if err := tmp.Close(); err != nil {
		return storageFailed(err, "close", key)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return storageFailed(err, "rename", key)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageFailed(err, "delete", key)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
