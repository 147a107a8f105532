package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/fwojciec/dossier"
)

// Ensure BlobStore implements dossier.BlobStore at compile time.
var _ dossier.BlobStore = (*BlobStore)(nil)

// BlobStore implements dossier.BlobStore on the local filesystem.
type BlobStore struct{}

// NewBlobStore creates a new BlobStore.
func NewBlobStore() *BlobStore {
	return &BlobStore{}
}

// Inspect streams the file at path through SHA-256.
func (s *BlobStore) Inspect(ctx context.Context, path string) (*dossier.BlobInfo, error) {
	f, err := os.Open(path)
	if notExist(err) {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "%s does not exist", path)
	}
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "open %s: %v", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "stat %s: %v", path, err)
	}
	if stat.IsDir() {
		return nil, dossier.Errorf(dossier.EIO, "%s is a directory", path)
	}

	sum, size, err := hashReader(f)
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "read %s: %v", path, err)
	}

	return &dossier.BlobInfo{
		Path:    path,
		Size:    size,
		SHA256:  sum,
		ModTime: stat.ModTime(),
	}, nil
}

// Put atomically replaces the file at path with data.
func (s *BlobStore) Put(ctx context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "stat %s: %v", path, err)
	}
	sum, size, _ := hashReader(bytes.NewReader(data))

	return &dossier.BlobInfo{
		Path:    path,
		Size:    size,
		SHA256:  sum,
		ModTime: stat.ModTime(),
	}, nil
}

// Get reads the whole file at path.
func (s *BlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if notExist(err) {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "%s does not exist", path)
	}
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "read %s: %v", path, err)
	}
	return data, nil
}

// MkdirAll creates path and any missing parents.
func (s *BlobStore) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return dossier.Errorf(dossier.EIO, "create %s: %v", path, err)
	}
	return nil
}

func hashReader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
