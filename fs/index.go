package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/dossier"
)

// Ensure IndexWriter implements dossier.IndexWriter at compile time.
var _ dossier.IndexWriter = (*IndexWriter)(nil)

// IndexWriter writes chunks as JSON lines to <path>.tmp and moves the file
// into place on Commit.
type IndexWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// NewIndexWriter creates an IndexWriter targeting path.
func NewIndexWriter(path string) *IndexWriter {
	return &IndexWriter{path: path}
}

func (w *IndexWriter) tempPath() string {
	return w.path + ".tmp"
}

func (w *IndexWriter) open() error {
	if w.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return dossier.Errorf(dossier.EIO, "create index dir: %v", err)
	}
	f, err := os.Create(w.tempPath())
	if err != nil {
		return dossier.Errorf(dossier.EIO, "create index: %v", err)
	}
	w.file = f
	w.buf = bufio.NewWriter(f)
	return nil
}

// WriteChunks appends one JSON line per chunk.
func (w *IndexWriter) WriteChunks(ctx context.Context, chunks []*dossier.Chunk) error {
	if err := w.open(); err != nil {
		return err
	}

	enc := json.NewEncoder(w.buf)
	enc.SetEscapeHTML(false)
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(c); err != nil {
			return dossier.Errorf(dossier.EIO, "write chunk %s#%d: %v", c.ArtifactID, c.ChunkIndex, err)
		}
	}
	return nil
}

// Commit flushes the temp file and renames it over the final index.
// Committing without any writes produces an empty index.
func (w *IndexWriter) Commit() error {
	if err := w.open(); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		w.Abort()
		return dossier.Errorf(dossier.EIO, "flush index: %v", err)
	}
	if err := w.file.Close(); err != nil {
		w.file = nil
		os.Remove(w.tempPath())
		return dossier.Errorf(dossier.EIO, "close index: %v", err)
	}
	w.file = nil

	if err := os.Rename(w.tempPath(), w.path); err != nil {
		os.Remove(w.tempPath())
		return dossier.Errorf(dossier.EIO, "rename index: %v", err)
	}
	return nil
}

// Abort discards the temp file.
func (w *IndexWriter) Abort() error {
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	if err := os.Remove(w.tempPath()); err != nil && !notExist(err) {
		return dossier.Errorf(dossier.EIO, "remove index temp: %v", err)
	}
	return nil
}
