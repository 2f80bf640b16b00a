package blob

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as files under one directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Put writes to a temp file in the target directory and renames it
// over the destination, so a crash mid-write never leaves a
// truncated blob behind.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, name+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(s.root, name))
}

func (s *LocalStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
