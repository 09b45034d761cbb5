package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/content"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Drafts bool `help:"Include draft posts"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	svc := build.NewService()
	defer func() { _ = svc.Close() }()

	ix, err := svc.Index(context.Background(), build.Request{Config: cfg, BaseDir: root.baseDir()}, d.Drafts)
	if err != nil {
		return err
	}
	return printIndex(os.Stdout, ix)
}

func printIndex(out io.Writer, ix *content.Index) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SLUG\tDATE\tPOSTNUM\tDRAFT\tTITLE\tFINGERPRINT")
	for p := range ix.SortedByRecency() {
		num := "-"
		if p.Meta.PostNum != nil {
			num = fmt.Sprint(*p.Meta.PostNum)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\n",
			p.Slug, p.Date().Format(time.DateOnly), num, p.Meta.Draft, p.Title(), p.Fingerprint)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d posts, %d pages, order %s\n", ix.Len(), ix.PageCount(), ix.Order())
	return err
}
