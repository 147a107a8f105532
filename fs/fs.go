// Package fs provides file-based storage for dossier files, manifests
// and the chunk index.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/dossier"
)

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return dossier.Errorf(dossier.EIO, "create %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return dossier.Errorf(dossier.EIO, "create temp file in %s: %v", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return dossier.Errorf(dossier.EIO, "write %s: %v", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return dossier.Errorf(dossier.EIO, "sync %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return dossier.Errorf(dossier.EIO, "close %s: %v", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return dossier.Errorf(dossier.EIO, "chmod %s: %v", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return dossier.Errorf(dossier.EIO, "rename %s: %v", path, err)
	}
	return nil
}

func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
