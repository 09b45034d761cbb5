package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// Order selects the recency comparator.
type Order string

const (
	OrderDate     Order = "date"
	OrderSequence Order = "sequence"
)

// ErrNotFound is returned by lookups for an unknown identifier.
var ErrNotFound = ferrors.NotFoundError("content not found").Build()

// LoadOptions configures Load.
type LoadOptions struct {
	PostsDir      string
	PagesDir      string // optional; a missing directory yields no pages
	Order         Order
	IncludeDrafts bool
}

// Index is the read-only set of posts and pages of one build.
type Index struct {
	posts  []*Post // recency order
	bySlug map[string]*Post
	pages  []*Post // slug order
	pageBy map[string]*Post
	drafts int
	order  Order
}

// Load discovers and parses every content file once. Any unreadable file or
// invalid post fails the whole load.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Index, error) {
	if opts.Order == "" {
		opts.Order = OrderDate
	}
	ix := &Index{
		bySlug: make(map[string]*Post),
		pageBy: make(map[string]*Post),
		order:  opts.Order,
	}

	postPaths, err := Discover(fsys, opts.PostsDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "content store is unreadable").
			WithContext("path", opts.PostsDir).Build()
	}
	for _, p := range postPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := readFile(fsys, p, KindPost)
		if err != nil {
			return nil, err
		}
		if post.Meta.Draft && !opts.IncludeDrafts {
			ix.drafts++
			continue
		}
		if _, dup := ix.bySlug[post.Slug]; dup {
			return nil, duplicateSlug(post)
		}
		ix.bySlug[post.Slug] = post
		ix.posts = append(ix.posts, post)
	}
	slices.SortFunc(ix.posts, Comparator(opts.Order))

	if opts.PagesDir != "" {
		pagePaths, err := Discover(fsys, opts.PagesDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "pages directory is unreadable").
				WithContext("path", opts.PagesDir).Build()
		}
		for _, p := range pagePaths {
			page, err := readFile(fsys, p, KindPage)
			if err != nil {
				return nil, err
			}
			if page.Meta.Draft && !opts.IncludeDrafts {
				continue
			}
			if _, dup := ix.pageBy[page.Slug]; dup {
				return nil, duplicateSlug(page)
			}
			ix.pageBy[page.Slug] = page
			ix.pages = append(ix.pages, page)
		}
	}
	return ix, nil
}

func duplicateSlug(p *Post) error {
	return ferrors.NewError(ferrors.CategoryValidation, "duplicate content identifier").Fatal().
		WithContext("slug", p.Slug).WithContext("file", p.SourcePath).Build()
}

func readFile(fsys fs.FS, p string, kind Kind) (*Post, error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read content file").
			WithContext("file", p).Build()
	}

	fields, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid front matter").Fatal().
			WithContext("file", p).Build()
	}

	meta, err := DecodeMetadata(fields, kind == KindPost)
	if err != nil {
		b := ferrors.WrapError(err, ferrors.CategoryValidation, "invalid post metadata").Fatal().WithContext("file", p)
		var fe *FieldError
		if errors.As(err, &fe) {
			b = b.WithContext("field", fe.Field)
		}
		return nil, b.Build()
	}

	slug := SlugFromPath(p)
	if kind == KindPage && meta.Title == "" {
		meta.Title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	}

	fp, err := frontmatter.Fingerprint(fields, body)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", p, err)
	}

	return &Post{
		Slug:        slug,
		Kind:        kind,
		Meta:        meta,
		Body:        body,
		SourcePath:  path.Clean(p),
		Fingerprint: fp,
	}, nil
}

// Comparator returns the total recency order for posts: newest first, ties
// broken by ascending slug.
func Comparator(order Order) func(a, b *Post) int {
	return func(a, b *Post) int {
		if order == OrderSequence {
			if c := compareSequence(a, b); c != 0 {
				return c
			}
		} else if c := b.Meta.Date.Compare(a.Meta.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	}
}

// compareSequence sorts numbered posts by descending postNum before unnumbered ones.
func compareSequence(a, b *Post) int {
	an, bn := a.Meta.PostNum, b.Meta.PostNum
	switch {
	case an == nil && bn == nil:
		return 0
	case an == nil:
		return 1
	case bn == nil:
		return -1
	case *an > *bn:
		return -1
	case *an < *bn:
		return 1
	}
	return 0
}

// FindByID returns the post with slug id, or ErrNotFound.
func (ix *Index) FindByID(id string) (*Post, error) {
	if p, ok := ix.bySlug[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound.WithContext("slug", id)
}

// FindPage returns the stand-alone page with slug, or ErrNotFound.
func (ix *Index) FindPage(slug string) (*Post, error) {
	if p, ok := ix.pageBy[slug]; ok {
		return p, nil
	}
	return nil, ErrNotFound.WithContext("slug", slug)
}

// SortedByRecency yields posts newest first. The sequence can be ranged over
// any number of times and always yields the same order.
func (ix *Index) SortedByRecency() iter.Seq[*Post] {
	return func(yield func(*Post) bool) {
		for _, p := range ix.posts {
			if !yield(p) {
				return
			}
		}
	}
}

// Pages yields stand-alone pages in slug order.
func (ix *Index) Pages() iter.Seq[*Post] {
	return slices.Values(ix.pages)
}

// Len returns the number of indexed posts.
func (ix *Index) Len() int { return len(ix.posts) }

// PageCount returns the number of stand-alone pages.
func (ix *Index) PageCount() int { return len(ix.pages) }

// DraftsSkipped returns how many drafts Load left out.
func (ix *Index) DraftsSkipped() int { return ix.drafts }

// Order returns the comparator the index was sorted with.
func (ix *Index) Order() Order { return ix.order }

// Newest returns the first post in recency order.
func (ix *Index) Newest() (*Post, bool) {
	if len(ix.posts) == 0 {
		return nil, false
	}
	return ix.posts[0], true
}

// NextPostNum returns one more than the highest postNum in the index.
func (ix *Index) NextPostNum() int {
	highest := 0
	for _, p := range ix.posts {
		if p.Meta.PostNum != nil && *p.Meta.PostNum > highest {
			highest = *p.Meta.PostNum
		}
	}
	return highest + 1
}
