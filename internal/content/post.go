package content

import (
	"time"
)

// Kind distinguishes dated posts from stand-alone pages.
type Kind int

const (
	KindPost Kind = iota
	KindPage
)

// Post is one parsed content file. It is immutable once loaded.
type Post struct {
	Slug        string
	Kind        Kind
	Meta        Metadata
	Body        []byte
	SourcePath  string
	Fingerprint string
}

// Title returns the post title.
func (p *Post) Title() string { return p.Meta.Title }

// Date returns the publish date.
func (p *Post) Date() time.Time { return p.Meta.Date }

// Route returns the site-relative URL of the rendered post.
func (p *Post) Route() string {
	if p.Kind == KindPage {
		return "/" + p.Slug
	}
	return "/blog/" + p.Slug
}
