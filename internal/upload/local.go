package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes blobs under a directory served at /static/uploads.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a local backend rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save writes the blob as <uuid>.<ext> under the upload directory and returns
// its root-relative URL. The directory is created if missing.
func (s *LocalStore) Save(_ context.Context, data []byte, originalFilename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.New(), extensionOf(originalFilename))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/static/uploads/" + name, nil
}
