package content

import (
	"context"
	"slices"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func post(title, date string, extra string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\ntitle: " + title + "\ndate: " + date + "\n" + extra + "---\nSome body text.\n")}
}

func slugs(ix *Index) []string {
	var out []string
	for p := range ix.SortedByRecency() {
		out = append(out, p.Slug)
	}
	return out
}

func TestDiscover_OrderedMarkdownOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/b.md":           {Data: []byte("b")},
		"posts/a.MD":           {Data: []byte("a")},
		"posts/.hidden.md":     {Data: []byte("h")},
		"posts/notes.txt":      {Data: []byte("n")},
		"posts/nested/c.md":    {Data: []byte("c")},
		"elsewhere/ignored.md": {Data: []byte("x")},
	}

	paths, err := Discover(fsys, "posts")
	require.NoError(t, err)
	require.Equal(t, []string{"posts/a.MD", "posts/b.md"}, paths)
	require.Equal(t, "a", SlugFromPath(paths[0]))
}

func TestLoad_SortsNewestFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/first.md":  post("First", "2021-01-01", ""),
		"posts/second.md": post("Second", "2022-01-01", ""),
		"posts/third.md":  post("Third", "2023-01-01", ""),
	}

	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
	require.NoError(t, err)
	require.Equal(t, 3, ix.Len())
	require.Equal(t, []string{"third", "second", "first"}, slugs(ix))

	// Restartable: a second pass yields the same order.
	require.Equal(t, []string{"third", "second", "first"}, slugs(ix))

	newest, ok := ix.Newest()
	require.True(t, ok)
	require.Equal(t, "Third", newest.Title())
	require.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), newest.Date())
}

func TestLoad_TieBreakIsSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/zeta.md":  post("Z", "2022-05-05", ""),
		"posts/alpha.md": post("A", "2022-05-05", ""),
		"posts/mid.md":   post("M", "2022-05-05", ""),
	}
	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mid", "zeta"}, slugs(ix))
}

func TestLoad_SequenceOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/a.md": post("A", "2023-01-01", "postNum: 1\n"),
		"posts/b.md": post("B", "2020-01-01", "postNum: 7\n"),
		"posts/c.md": post("C", "2024-01-01", ""),
		"posts/d.md": post("D", "2021-01-01", "postNum: 3\n"),
	}
	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts", Order: OrderSequence})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "d", "a", "c"}, slugs(ix))
	require.Equal(t, 8, ix.NextPostNum())
}

func TestComparator_IsTotal(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2022, 1, d, 0, 0, 0, 0, time.UTC) }
	posts := []*Post{
		{Slug: "c", Meta: Metadata{Date: day(1)}},
		{Slug: "a", Meta: Metadata{Date: day(3)}},
		{Slug: "b", Meta: Metadata{Date: day(1)}},
		{Slug: "d", Meta: Metadata{Date: day(2)}},
	}
	cmp := Comparator(OrderDate)
	for _, a := range posts {
		for _, b := range posts {
			if a == b {
				require.Zero(t, cmp(a, b))
				continue
			}
			require.NotZero(t, cmp(a, b))
			require.Equal(t, -cmp(b, a), cmp(a, b))
		}
	}
	sorted := slices.Clone(posts)
	slices.SortFunc(sorted, cmp)
	var got []string
	for _, p := range sorted {
		got = append(got, p.Slug)
	}
	require.Equal(t, []string{"a", "d", "b", "c"}, got)
}

func TestLoad_DraftsExcludedUnlessRequested(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/live.md":    post("Live", "2022-01-01", ""),
		"posts/draft.md":   post("Draft", "2022-01-02", "draft: true\n"),
		"posts/unready.md": post("Unready", "2022-01-03", "ready: false\n"),
	}

	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
	require.NoError(t, err)
	require.Equal(t, []string{"live"}, slugs(ix))
	require.Equal(t, 2, ix.DraftsSkipped())

	ix, err = Load(context.Background(), fsys, LoadOptions{PostsDir: "posts", IncludeDrafts: true})
	require.NoError(t, err)
	require.Equal(t, 3, ix.Len())
}

func TestLoad_MissingRequiredFieldsFailFast(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"no title", "---\ndate: 2022-01-01\n---\nbody\n", "title"},
		{"no date", "---\ntitle: Hi\n---\nbody\n", "date"},
		{"bad date", "---\ntitle: Hi\ndate: someday\n---\nbody\n", "date"},
		{"no front matter", "# Hi\n", "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"posts/x.md": {Data: []byte(tt.data)}}
			_, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			field, _ := ce.Context().GetString("field")
			require.Equal(t, tt.field, field)
			file, _ := ce.Context().GetString("file")
			require.Equal(t, "posts/x.md", file)
		})
	}
}

func TestLoad_UnreadableStoreIsFatal(t *testing.T) {
	_, err := Load(context.Background(), fstest.MapFS{}, LoadOptions{PostsDir: "posts"})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestLoad_DuplicateSlugRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/same.md": post("One", "2022-01-01", ""),
		"posts/same.MD": post("Two", "2022-01-02", ""),
	}
	_, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
	require.Error(t, err)
}

func TestIndex_FindByID(t *testing.T) {
	fsys := fstest.MapFS{"posts/hello.md": post("Hello", "2022-01-01", "postNum: 1\ncategories: [go, web]\n")}
	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts"})
	require.NoError(t, err)

	p, err := ix.FindByID("hello")
	require.NoError(t, err)
	require.Equal(t, "Hello", p.Meta.Title)
	require.Equal(t, 1, *p.Meta.PostNum)
	require.Equal(t, []string{"go", "web"}, p.Meta.Categories)
	require.Equal(t, "/blog/hello", p.Route())
	require.NotEmpty(t, p.Fingerprint)

	missing, err := ix.FindByID("nope")
	require.Nil(t, missing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_PagesTolerateMissingTitle(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/a.md":        post("A", "2022-01-01", ""),
		"pages/about-me.md": {Data: []byte("I write code.\n")},
		"pages/cv.md":       {Data: []byte("---\ntitle: Résumé\n---\nWork.\n")},
	}
	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts", PagesDir: "pages"})
	require.NoError(t, err)
	require.Equal(t, 2, ix.PageCount())

	about, err := ix.FindPage("about-me")
	require.NoError(t, err)
	require.Equal(t, "About Me", about.Title())
	require.Equal(t, "/about-me", about.Route())

	_, err = ix.FindPage("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_MissingPagesDirIsFine(t *testing.T) {
	fsys := fstest.MapFS{"posts/a.md": post("A", "2022-01-01", "")}
	ix, err := Load(context.Background(), fsys, LoadOptions{PostsDir: "posts", PagesDir: "pages"})
	require.NoError(t, err)
	require.Zero(t, ix.PageCount())
}

func TestDecodeMetadata_AlternateKeys(t *testing.T) {
	m, err := DecodeMetadata(map[string]any{
		"title":       "T",
		"publishedAt": "2024-02-03T10:00:00Z",
		"lastmod":     "2024-02-05",
		"tags":        "a, b,",
		"description": "desc",
	}, true)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC), m.Date)
	require.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), m.Updated)
	require.Equal(t, []string{"a", "b"}, m.Categories)
	require.Equal(t, "desc", m.Summary)
}
