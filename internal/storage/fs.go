package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FS stores uploaded documents on the local filesystem. The folderID is
// treated as a subdirectory under the base path; empty means the base path
// itself.
type FS struct {
	basePath string
}

func NewFS(basePath string) (*FS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FS{basePath: basePath}, nil
}

func (f *FS) Upload(_ context.Context, data []byte, fileName, folderID string) (string, error) {
	dir := f.basePath
	if folderID != "" {
		dir = filepath.Join(dir, folderID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating folder: %w", err)
		}
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}
