// Package storage provides blob storage for uploaded project images.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore accepts raw upload bytes and returns a stored reference the
// presentation layer can serve. Validation of extension and size happens in
// the service layer; the store only persists.
type BlobStore interface {
	Save(ctx context.Context, filename string, content []byte) (string, error)
}

// DiskStore writes uploads to a local directory and returns URL paths under
// /static/uploads, mirroring how the site serves them.
type DiskStore struct {
	dir     string
	urlBase string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, urlBase: "/static/uploads"}, nil
}

// Save writes content under a random name, keeping the original extension.
func (s *DiskStore) Save(_ context.Context, filename string, content []byte) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return s.urlBase + "/" + name, nil
}
