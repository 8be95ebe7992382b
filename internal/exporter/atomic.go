package exporter

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	apperrors "salesanalyzer/internal/errors"
)

// writeAtomic writes a file through a temporary sibling which is synced and
// renamed over path only when write succeeds. On any failure the temporary
// file is removed and path is left untouched.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewExportError("cannot create output directory", err).
			WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewExportError("cannot create temporary file", err).
			WithContext("path", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return apperrors.NewExportError("cannot write report", err).WithContext("path", path)
	}
	if err = buf.Flush(); err != nil {
		return apperrors.NewExportError("cannot write report", err).WithContext("path", path)
	}
	if err = tmp.Sync(); err != nil {
		return apperrors.NewExportError("cannot sync report", err).WithContext("path", path)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewExportError("cannot close report", err).WithContext("path", path)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return apperrors.NewExportError("cannot set report permissions", err).WithContext("path", path)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return apperrors.NewExportError("cannot commit report", err).WithContext("path", path)
	}
	return nil
}
