package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/folio/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
	Drafts bool   `help:"Include draft posts"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if b.Drafts {
		cfg.Build.IncludeDrafts = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := build.NewService()
	defer func() { _ = svc.Close() }()

	res, err := svc.Run(ctx, build.Request{Config: cfg, OutputDir: b.Output, BaseDir: root.baseDir()})
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts and %d pages into %s (%d files, %s)\n",
		res.Posts, res.Pages, res.OutputPath, res.Files, res.Duration.Round(1e6))
	if res.BrokenLinks > 0 {
		fmt.Printf("Warning: %d internal links point at missing routes\n", res.BrokenLinks)
	}
	return nil
}
