// Package commands implements the folio command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/folio/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"folio.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Generate the static site"`
	Serve    ServeCmd    `cmd:"" help:"Build, serve and keep the site current"`
	Init     InitCmd     `cmd:"" help:"Initialize a configuration file and content directories"`
	New      NewCmd      `cmd:"" help:"Scaffold a new post"`
	Discover DiscoverCmd `cmd:"" help:"List posts in recency order without building"`
	Chat     ChatCmd     `cmd:"" help:"Ask the configured chat endpoint questions interactively"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(os.Stderr, config.LogFormatText, level)
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig loads the configuration and applies its logging settings. The
// --verbose flag keeps debug level regardless of the file.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(os.Stderr, cfg.Logging.Format, level)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// baseDir is the directory relative configuration paths resolve against.
func (c *CLI) baseDir() string {
	return filepath.Dir(c.Config)
}

func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
