package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// writeNewFile writes data to dir/rel, creating parent directories. The
// path must stay below dir and an existing file is an error.
func writeNewFile(dir, rel string, data []byte) (string, error) {
	cleanRel := filepath.Clean(rel)
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError("output path must stay inside the content directory").
			WithContext("path", rel).Build()
	}
	fullPath := filepath.Join(dir, cleanRel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create directory").
			WithContext("path", filepath.Dir(fullPath)).Build()
	}

	// #nosec G304 -- fullPath is validated to stay under dir.
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ferrors.ValidationError("file already exists").WithContext("path", fullPath).Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create file").
			WithContext("path", fullPath).Build()
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write file").
			WithContext("path", fullPath).Build()
	}
	if err := f.Close(); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write file").
			WithContext("path", fullPath).Build()
	}
	return fullPath, nil
}
