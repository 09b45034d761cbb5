package build

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/folio/internal/content"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/site"
)

// reservedSlugs cannot be used by pages because generated routes live there.
var reservedSlugs = map[string]bool{
	"blog": true, "css": true, "api": true, "rss": true,
	"healthz": true, "metrics": true, "404": true,
}

type renderJob struct {
	route  string
	file   string
	render func(io.Writer) error
}

func planPages(a *site.Assembler, index *content.Index) ([]renderJob, error) {
	jobs := []renderJob{
		{route: "/", file: "index.html", render: a.RenderHome},
		{route: "/blog", file: "blog/index.html", render: a.RenderListing},
		{route: "/404", file: "404.html", render: a.RenderNotFound},
	}
	for p := range index.SortedByRecency() {
		slug := p.Slug
		jobs = append(jobs, renderJob{
			route:  p.Route(),
			file:   "blog/" + slug + "/index.html",
			render: func(w io.Writer) error { return a.RenderPost(w, slug) },
		})
	}
	for p := range index.Pages() {
		slug := p.Slug
		if reservedSlugs[slug] {
			return nil, ferrors.ValidationError("page slug is reserved").
				WithContext("slug", slug).
				WithContext("file", p.SourcePath).Build()
		}
		jobs = append(jobs, renderJob{
			route:  p.Route(),
			file:   slug + "/index.html",
			render: func(w io.Writer) error { return a.RenderPage(w, slug) },
		})
	}
	return jobs, nil
}

// renderPages renders every HTML page with at most limit pages in flight.
func renderPages(ctx context.Context, w *siteWriter, a *site.Assembler, index *content.Index, limit int) error {
	jobs, err := planPages(a, index)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := job.render(&buf); err != nil {
				return wrapRender(err, job.route)
			}
			slog.Debug("Rendered page", logfields.Route(job.route))
			return w.write(job.file, buf.Bytes())
		})
	}
	return g.Wait()
}

// writeAssets writes the sitemap, robots.txt, the feed and the stylesheets.
func writeAssets(w *siteWriter, a *site.Assembler, hl *markdown.ChromaHighlighter, feedItems int) error {
	var buf bytes.Buffer
	if err := site.WriteSitemapXML(&buf, a.Sitemap()); err != nil {
		return wrapRender(err, "/sitemap.xml")
	}
	if err := w.write("sitemap.xml", buf.Bytes()); err != nil {
		return err
	}
	if err := w.write("robots.txt", []byte(a.Robots())); err != nil {
		return err
	}

	buf.Reset()
	if err := a.WriteFeed(&buf, feedItems); err != nil {
		return wrapRender(err, "/rss.xml")
	}
	if err := w.write("rss.xml", buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := hl.CSS(&buf); err != nil {
		return wrapRender(err, "/css/chroma.css")
	}
	if err := w.write("css/chroma.css", buf.Bytes()); err != nil {
		return err
	}
	return w.write("css/site.css", site.Stylesheet())
}

// checkLinks logs internal links of posts and pages that resolve to neither a
// generated route nor a file in the output, and returns how many it found.
func checkLinks(root string, index *content.Index) int {
	routes := map[string]bool{"/": true, "/blog": true, "/rss": true}
	for p := range index.SortedByRecency() {
		routes[p.Route()] = true
	}
	for p := range index.Pages() {
		routes[p.Route()] = true
	}

	broken := 0
	check := func(p *content.Post) {
		for _, link := range markdown.Links(markdown.Parse(p.Body)) {
			if link.Kind != markdown.LinkInternal {
				continue
			}
			target := linkPath(link.Href)
			if routes[target] || fileExists(root, target) {
				continue
			}
			broken++
			slog.Warn("Broken internal link", logfields.Slug(p.Slug), logfields.URL(link.Href), logfields.File(p.SourcePath))
		}
	}
	for p := range index.SortedByRecency() {
		check(p)
	}
	for p := range index.Pages() {
		check(p)
	}
	return broken
}

func linkPath(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	clean := path.Clean(href)
	if clean == "." {
		return "/"
	}
	return clean
}

func fileExists(root, route string) bool {
	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(route, "/")))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return true
}
