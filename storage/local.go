package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalImageStore writes image blobs to a directory on the local filesystem.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Save(_ context.Context, key string, contents io.Reader) (string, error) {
	destination := filepath.Join(s.dir, key)

	f, err := os.Create(destination)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, contents); err != nil {
		f.Close()
		os.Remove(destination)
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	return destination, nil
}

func (s *LocalImageStore) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		// Already gone, nothing to reconcile
		return nil
	}
	return err
}
