package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists attachment payloads. The rest of the system only records
// the returned path; it never reads files back through this interface.
type Store interface {
	// Save writes the payload and returns the stored path. The original
	// filename is used only for its extension.
	Save(filename string, r io.Reader) (string, error)
}

// DiskStore stores attachment payloads on the local filesystem under a
// single directory, with uuid-based names to avoid collisions.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Save writes the payload to a uuid-named file under the store directory.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
