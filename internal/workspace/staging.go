package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/folio/internal/logfields"
)

// Staging is a temporary directory that atomically replaces a target
// directory on Commit.
type Staging struct {
	target string
	dir    string
	done   bool
}

// NewStaging creates a staging directory next to target. The target's parent
// is created if missing.
func NewStaging(target string) (*Staging, error) {
	target = filepath.Clean(target)
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return nil, fmt.Errorf("create output parent: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(target)+"-staging-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	// MkdirTemp uses 0700; published sites must be world-readable.
	if err := os.Chmod(dir, 0o755); err != nil { //nolint:gosec // static site output
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("chmod staging directory: %w", err)
	}
	return &Staging{target: target, dir: dir}, nil
}

// Path returns the staging directory.
func (s *Staging) Path() string {
	return s.dir
}

// Commit replaces the target with the staged tree. The previous target is
// moved aside first and removed only after the swap succeeded.
func (s *Staging) Commit() error {
	if s.done {
		return fmt.Errorf("staging directory already committed or aborted")
	}
	backup := ""
	if _, err := os.Stat(s.target); err == nil {
		backup = s.dir + ".old"
		if err := os.Rename(s.target, backup); err != nil {
			return fmt.Errorf("move previous output aside: %w", err)
		}
	}
	if err := os.Rename(s.dir, s.target); err != nil {
		if backup != "" {
			_ = os.Rename(backup, s.target)
		}
		return fmt.Errorf("publish staged output: %w", err)
	}
	s.done = true
	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(backup), logfields.Error(err))
		}
	}
	return nil
}

// Abort discards the staged tree. It is safe to call after Commit.
func (s *Staging) Abort() {
	if s.done {
		return
	}
	s.done = true
	if err := os.RemoveAll(s.dir); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(s.dir), logfields.Error(err))
	}
}
