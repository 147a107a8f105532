package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of dossier.IndexWriter.
type IndexWriter struct {
	WriteChunksFn func(ctx context.Context, chunks []*dossier.Chunk) error
	CommitFn      func() error
	AbortFn       func() error
}

func (w *IndexWriter) WriteChunks(ctx context.Context, chunks []*dossier.Chunk) error {
	return w.WriteChunksFn(ctx, chunks)
}

func (w *IndexWriter) Commit() error {
	return w.CommitFn()
}

func (w *IndexWriter) Abort() error {
	return w.AbortFn()
}
