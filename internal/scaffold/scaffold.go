// Package scaffold creates new content files with complete front matter.
package scaffold

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"git.home.luguber.info/inful/folio/internal/content"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/markdown"
)

// PostOptions describes the post to create.
type PostOptions struct {
	Title      string
	Slug       string // derived from Title when empty
	Date       time.Time
	Categories []string
	Summary    string
	// Publish creates the post without the draft flag.
	Publish bool
}

// Created reports a scaffolded file.
type Created struct {
	Path    string
	Slug    string
	PostNum int
}

var bodyTemplate = template.Must(template.New("post").Parse(`# {{.Title}}

{{if .Summary}}{{.Summary}}

{{end}}Start writing here.
`))

// NewPost writes <contentRoot>/<postsDir>/<slug>.md. postNum continues the
// sequence of the existing posts, drafts included. Existing files are never
// overwritten.
func NewPost(ctx context.Context, contentRoot, postsDir string, opts PostOptions) (*Created, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, ferrors.ValidationError("title is required").Build()
	}
	slug := opts.Slug
	if slug == "" {
		slug = title
	}
	slug = strings.Trim(markdown.Slugify(slug), "-_")
	if slug == "" {
		return nil, ferrors.ValidationError("title does not produce a usable slug").
			WithContext("title", title).Build()
	}

	next, err := nextPostNum(ctx, contentRoot, postsDir)
	if err != nil {
		return nil, err
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	fields := frontmatter.Fields{
		"title":   title,
		"date":    date,
		"postNum": next,
		"draft":   !opts.Publish,
	}
	if len(opts.Categories) > 0 {
		fields["categories"] = opts.Categories
	}
	if opts.Summary != "" {
		fields["summary"] = opts.Summary
	}

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, struct{ Title, Summary string }{title, opts.Summary}); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render post body").Build()
	}
	doc, err := frontmatter.Compose(fields, body.Bytes(), frontmatter.Style{})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to serialize front matter").Build()
	}

	path, err := writeNewFile(filepath.Join(contentRoot, postsDir), slug+".md", doc)
	if err != nil {
		return nil, err
	}
	return &Created{Path: path, Slug: slug, PostNum: next}, nil
}

func nextPostNum(ctx context.Context, contentRoot, postsDir string) (int, error) {
	if _, err := os.Stat(filepath.Join(contentRoot, postsDir)); errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	ix, err := content.Load(ctx, os.DirFS(contentRoot), content.LoadOptions{
		PostsDir:      postsDir,
		IncludeDrafts: true,
	})
	if err != nil {
		return 0, err
	}
	return ix.NextPostNum(), nil
}
