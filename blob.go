package dossier

import (
	"context"
	"time"
)

// BlobInfo describes stored content. SHA256 is computed from the full
// content, never a prefix.
type BlobInfo struct {
	Path    string
	Size    int64
	SHA256  string
	ModTime time.Time
}

// BlobStore stores raw and normalized dossier files.
type BlobStore interface {
	// Inspect hashes the file at path to EOF.
	// Returns ENOTFOUND if the file does not exist.
	Inspect(ctx context.Context, path string) (*BlobInfo, error)

	// Put atomically replaces the file at path with data.
	Put(ctx context.Context, path string, data []byte) (*BlobInfo, error)

	// Get reads the whole file at path.
	// Returns ENOTFOUND if the file does not exist.
	Get(ctx context.Context, path string) ([]byte, error)

	// MkdirAll creates a directory and its parents.
	MkdirAll(ctx context.Context, path string) error
}
