package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", "path", root.Config, "force", i.Force)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}

	example := config.Example()
	config.ApplyDefaults(example)
	for _, dir := range []string{
		filepath.Join(example.Content.Dir, example.Content.PostsDir),
		filepath.Join(example.Content.Dir, example.Content.PagesDir),
		filepath.Join(example.Content.Dir, example.Content.StaticDir),
	} {
		full := filepath.Join(root.baseDir(), dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create content directory").
				WithContext("path", full).Build()
		}
	}
	return nil
}
