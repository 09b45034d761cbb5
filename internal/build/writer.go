package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// siteWriter writes output files below root and counts them. It is safe for
// concurrent use.
type siteWriter struct {
	root  string
	files atomic.Int64
}

func (w *siteWriter) write(rel string, data []byte) error {
	full := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil { //nolint:gosec // static site output
		return fsError(err, rel)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil { //nolint:gosec // static site output
		return fsError(err, rel)
	}
	w.files.Add(1)
	return nil
}

func (w *siteWriter) count() int {
	return int(w.files.Load())
}

func fsError(err error, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("failed to write %s", path)).
		WithContext("path", path).Build()
}

// copyStatic copies the static directory tree into the output root. A
// missing directory is not an error.
func copyStatic(w *siteWriter, dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fsError(err, dir)
	}
	if !info.IsDir() {
		return ferrors.ConfigError("static path is not a directory").WithContext("path", dir).Build()
	}
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return fsError(err, p)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fsError(err, p)
		}
		return w.write(filepath.ToSlash(rel), data)
	})
}

// carryOver copies files of the previous output that the new build did not
// produce into the staging tree.
func carryOver(previous, staging string) error {
	if _, err := os.Stat(previous); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(previous, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return fsError(err, p)
		}
		rel, err := filepath.Rel(previous, p)
		if err != nil {
			return err
		}
		if d.IsDir() || rel == "." {
			return nil
		}
		dst := filepath.Join(staging, rel)
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fsError(err, p)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // static site output
			return fsError(err, dst)
		}
		return os.WriteFile(dst, data, 0o644) //nolint:gosec // static site output
	})
}
