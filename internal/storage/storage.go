// Package storage is the blob store behind the media resource.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the blob storage interface: opaque bytes addressed by a
// slash-separated path. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// FS stores blobs under a directory on local disk.
type FS struct {
	root    string
	baseURL string
}

// NewFS creates a filesystem store rooted at root. Files are served at
// baseURL + "/" + path by whatever fronts the directory.
func NewFS(root, baseURL string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &FS{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (f *FS) Put(_ context.Context, path string, data []byte) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (f *FS) Delete(_ context.Context, path string) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (f *FS) URL(path string) string {
	return f.baseURL + "/" + path
}

// resolve maps a blob path onto the root, rejecting traversal outside it.
func (f *FS) resolve(path string) (string, error) {
	full := filepath.Join(f.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(f.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return full, nil
}
