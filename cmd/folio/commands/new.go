package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title      string   `arg:"" help:"Post title"`
	Slug       string   `help:"Slug (derived from the title when omitted)"`
	Date       string   `help:"Publish date as YYYY-MM-DD (default today)"`
	Categories []string `short:"t" help:"Categories, repeatable or comma separated"`
	Summary    string   `help:"Summary used for listings and meta descriptions"`
	Publish    bool     `help:"Create the post without the draft flag"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if cfg.Content.Repository != nil {
		return ferrors.ValidationError("content is read from a repository; create posts in its working copy").Build()
	}

	date := time.Now()
	if n.Date != "" {
		date, err = time.Parse(time.DateOnly, n.Date)
		if err != nil {
			return ferrors.ValidationError("date must be YYYY-MM-DD").WithContext("date", n.Date).Build()
		}
	}

	var categories []string
	for _, c := range n.Categories {
		for part := range strings.SplitSeq(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				categories = append(categories, part)
			}
		}
	}

	contentRoot := cfg.Content.Dir
	if !filepath.IsAbs(contentRoot) {
		contentRoot = filepath.Join(root.baseDir(), contentRoot)
	}
	created, err := scaffold.NewPost(context.Background(), contentRoot, cfg.Content.PostsDir, scaffold.PostOptions{
		Title:      n.Title,
		Slug:       n.Slug,
		Date:       date,
		Categories: categories,
		Summary:    n.Summary,
		Publish:    n.Publish,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (postNum %d)\n", created.Path, created.PostNum)
	return nil
}
