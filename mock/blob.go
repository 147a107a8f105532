package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.BlobStore = (*BlobStore)(nil)

// BlobStore is a mock implementation of dossier.BlobStore.
type BlobStore struct {
	InspectFn  func(ctx context.Context, path string) (*dossier.BlobInfo, error)
	PutFn      func(ctx context.Context, path string, data []byte) (*dossier.BlobInfo, error)
	GetFn      func(ctx context.Context, path string) ([]byte, error)
	MkdirAllFn func(ctx context.Context, path string) error
}

func (s *BlobStore) Inspect(ctx context.Context, path string) (*dossier.BlobInfo, error) {
	return s.InspectFn(ctx, path)
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
	return s.PutFn(ctx, path, data)
}

func (s *BlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	return s.GetFn(ctx, path)
}

func (s *BlobStore) MkdirAll(ctx context.Context, path string) error {
	return s.MkdirAllFn(ctx, path)
}
