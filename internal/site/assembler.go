package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"iter"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/site.css
var stylesheet []byte

const (
	wordsPerMinute = 200
	dateLayout     = "January 2, 2006"
	summaryRunes   = 160
	listingRoute   = "/blog"
)

// Assembler binds the post index, the Markdown renderer and the site chrome
// into complete pages.
type Assembler struct {
	site      config.SiteConfig
	index     *content.Index
	renderer  *markdown.Renderer
	theme     Theme
	subscribe bool
	botCheck  *BotWidget
	now       func() time.Time
	pages     map[string]*template.Template
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithClock overrides the clock used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithSubscribeForm renders the newsletter form in the footer.
func WithSubscribeForm(enabled bool) Option {
	return func(a *Assembler) { a.subscribe = enabled }
}

// WithBotCheck adds the verification widget to the subscribe form when the
// check is enabled.
func WithBotCheck(bc config.BotCheck) Option {
	return func(a *Assembler) {
		if !bc.Enabled {
			a.botCheck = nil
			return
		}
		a.botCheck = &BotWidget{
			SiteKey:       bc.SiteKey,
			ScriptURL:     bc.ScriptURL,
			WidgetClass:   bc.WidgetClass,
			ResponseField: bc.ResponseField,
			TokenHeader:   bc.TokenHeader,
		}
	}
}

// NewAssembler parses the page templates and returns an Assembler.
func NewAssembler(site config.SiteConfig, index *content.Index, renderer *markdown.Renderer, opts ...Option) (*Assembler, error) {
	a := &Assembler{
		site:     site,
		index:    index,
		renderer: renderer,
		theme:    NewTheme(site.Theme),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	pages, err := parseTemplates(templateFS)
	if err != nil {
		return nil, err
	}
	a.pages = pages
	return a, nil
}

var pageTemplates = []string{"post", "listing", "home", "page", "notfound"}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("base").Funcs(template.FuncMap{
		"isoDate": func(t time.Time) string { return t.Format(time.DateOnly) },
	}).ParseFS(fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}
	out := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(fsys, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (a *Assembler) execute(w io.Writer, name string, view any) error {
	// Render into a buffer so a template error never leaves a half page.
	var buf bytes.Buffer
	if err := a.pages[name].ExecuteTemplate(&buf, "base", view); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Entry is one row of a post listing.
type Entry struct {
	Title    string
	URL      string
	Date     time.Time
	DateText string
	Summary  string
}

// PostView is the data of a post page.
type PostView struct {
	Chrome      Chrome
	Meta        Meta
	Title       string
	Date        time.Time
	DateText    string
	ReadingTime string
	Categories  []string
	TOC         []markdown.HeadingRef
	Body        template.HTML
	BackURL     string
}

// ListingView is the data of the post listing and home pages.
type ListingView struct {
	Chrome  Chrome
	Meta    Meta
	Heading string
	Intro   string
	Entries []Entry
	MoreURL string
}

// PageView is the data of a stand-alone page.
type PageView struct {
	Chrome Chrome
	Meta   Meta
	Title  string
	Body   template.HTML
}

// NotFoundView is the data of the not-found page.
type NotFoundView struct {
	Chrome Chrome
	Meta   Meta
}

// ReadingMinutes estimates reading time as ceil(words / 200).
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// RenderPost writes the page of the post with slug id. An unknown id returns
// content.ErrNotFound and writes nothing.
func (a *Assembler) RenderPost(w io.Writer, id string) error {
	p, err := a.index.FindByID(id)
	if err != nil {
		return err
	}
	view, err := a.PostView(p)
	if err != nil {
		return err
	}
	return a.execute(w, "post", view)
}

// PostView builds the view of a post.
func (a *Assembler) PostView(p *content.Post) (*PostView, error) {
	doc := markdown.Parse(p.Body)
	body, err := a.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Slug, err)
	}
	description := firstNonEmpty(p.Meta.Summary, markdown.Excerpt(doc, summaryRunes))
	meta, err := a.postMeta(p, description)
	if err != nil {
		return nil, err
	}
	return &PostView{
		Chrome:      a.chrome(p.Route()),
		Meta:        meta,
		Title:       p.Title(),
		Date:        p.Date(),
		DateText:    p.Date().Format(dateLayout),
		ReadingTime: fmt.Sprintf("%d min read", ReadingMinutes(markdown.WordCount(p.Body))),
		Categories:  p.Meta.Categories,
		TOC:         markdown.Headings(doc),
		Body:        body,
		BackURL:     listingRoute,
	}, nil
}

// RenderListing writes the full post listing, newest first.
func (a *Assembler) RenderListing(w io.Writer) error {
	view := &ListingView{
		Chrome:  a.chrome(listingRoute),
		Meta:    a.siteMeta("Writing", "", listingRoute),
		Heading: "Writing",
		Entries: a.entries(a.index.SortedByRecency(), 0),
	}
	return a.execute(w, "listing", view)
}

// RenderHome writes the home page: the intro and the most recent posts.
func (a *Assembler) RenderHome(w io.Writer) error {
	view := &ListingView{
		Chrome:  a.chrome("/"),
		Meta:    a.siteMeta("", "", "/"),
		Heading: a.site.Title,
		Intro:   a.site.Intro,
		Entries: a.entries(a.index.SortedByRecency(), a.site.HomePosts),
	}
	if a.site.HomePosts > 0 && a.index.Len() > a.site.HomePosts {
		view.MoreURL = listingRoute
	}
	return a.execute(w, "home", view)
}

func (a *Assembler) entries(posts iter.Seq[*content.Post], limit int) []Entry {
	var out []Entry
	for p := range posts {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, Entry{
			Title:    p.Title(),
			URL:      p.Route(),
			Date:     p.Date(),
			DateText: p.Date().Format(dateLayout),
			Summary:  p.Meta.Summary,
		})
	}
	return out
}

// RenderPage writes the stand-alone page with slug.
func (a *Assembler) RenderPage(w io.Writer, slug string) error {
	p, err := a.index.FindPage(slug)
	if err != nil {
		return err
	}
	doc := markdown.Parse(p.Body)
	body, err := a.renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render page %s: %w", slug, err)
	}
	view := &PageView{
		Chrome: a.chrome(p.Route()),
		Meta:   a.siteMeta(p.Title(), firstNonEmpty(p.Meta.Summary, markdown.Excerpt(doc, summaryRunes)), p.Route()),
		Title:  p.Title(),
		Body:   body,
	}
	return a.execute(w, "page", view)
}

// RenderNotFound writes the not-found page.
func (a *Assembler) RenderNotFound(w io.Writer) error {
	view := &NotFoundView{
		Chrome: a.chrome(""),
		Meta:   a.siteMeta("Not found", "", "/404"),
	}
	return a.execute(w, "notfound", view)
}

// Stylesheet returns the site stylesheet served at /css/site.css.
func Stylesheet() []byte {
	return stylesheet
}
