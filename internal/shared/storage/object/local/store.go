package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"racket-backend/internal/shared/storage/object"
)

// Store implements object.Store using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "."
	}
	return &Store{baseDir: baseDir}
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("%w: %q", object.ErrInvalidKey, key)
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", clean, err)
	}
	return f, nil
}

var _ object.Store = (*Store)(nil)
