package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"coven-backend/pkg/id"
)

// BlobStore persists uploaded document bodies and hands back an opaque
// path-like handle.
type BlobStore interface {
	Save(filename string, content []byte) (string, error)
}

// LocalStore writes blobs under a base directory, one subdirectory per
// upload to keep original filenames collision-free.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(filename string, content []byte) (string, error) {
	dir := filepath.Join(s.baseDir, id.New(id.PrefixDocument))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
