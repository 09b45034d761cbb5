package site

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/folio/internal/content"
)

// Meta is the head metadata of a page: title, social cards and structured data.
type Meta struct {
	Title       string // full <title>, already templated
	Description string
	Canonical   string
	OGType      string
	OGTitle     string
	Image       string
	Published   string // RFC 3339, articles only
	Modified    string

	TwitterCard        string
	TwitterSite        string
	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string

	// JSONLD is the serialized structured data block, or empty.
	JSONLD template.JS
}

// PageTitle applies the site title template.
func (a *Assembler) PageTitle(title string) string {
	if title == "" || title == a.site.Title {
		return a.site.Title
	}
	return fmt.Sprintf("%s | %s", title, a.site.Title)
}

// AbsURL joins a site-relative route onto the base URL. Absolute URLs are
// returned unchanged.
func (a *Assembler) AbsURL(route string) string {
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return a.site.BaseURL + route
}

// OGImage returns the post's social image, falling back to the generated
// image endpoint for title.
func (a *Assembler) OGImage(title, image string) string {
	if image != "" {
		return a.AbsURL(image)
	}
	return a.site.BaseURL + "/og?title=" + url.QueryEscape(title)
}

func (a *Assembler) siteMeta(title, description, route string) Meta {
	if description == "" {
		description = a.site.Description
	}
	image := a.OGImage(a.site.Title, "")
	return Meta{
		Title:              a.PageTitle(title),
		Description:        description,
		Canonical:          a.AbsURL(route),
		OGType:             "website",
		OGTitle:            firstNonEmpty(title, a.site.Title),
		Image:              image,
		TwitterCard:        "summary_large_image",
		TwitterSite:        a.site.Twitter,
		TwitterTitle:       firstNonEmpty(title, a.site.Title),
		TwitterDescription: description,
		TwitterImage:       image,
	}
}

func (a *Assembler) postMeta(p *content.Post, description string) (Meta, error) {
	m := a.siteMeta(p.Title(), description, p.Route())
	m.OGType = "article"
	m.Image = a.OGImage(p.Title(), p.Meta.Image)
	m.Published = p.Meta.Date.Format(time.RFC3339)
	m.Modified = p.Meta.Updated.Format(time.RFC3339)
	m.TwitterTitle = firstNonEmpty(p.Meta.TwitterTitle, p.Title())
	m.TwitterDescription = firstNonEmpty(p.Meta.TwitterDescription, m.Description)
	m.TwitterImage = m.Image
	if p.Meta.TwitterImage != "" {
		m.TwitterImage = a.AbsURL(p.Meta.TwitterImage)
	}

	ld, err := a.BlogPosting(p, m.Description)
	if err != nil {
		return Meta{}, err
	}
	m.JSONLD = template.JS(ld) //nolint:gosec // json.Marshal escapes <, > and &
	return m, nil
}

// blogPosting is the schema.org BlogPosting structured data of a post.
type blogPosting struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	DatePublished string `json:"datePublished"`
	DateModified  string `json:"dateModified"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image"`
	URL           string `json:"url"`
	Author        person `json:"author"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BlogPosting returns the JSON-LD block of a post. The author is always the
// site author.
func (a *Assembler) BlogPosting(p *content.Post, description string) ([]byte, error) {
	doc := blogPosting{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      p.Title(),
		DatePublished: p.Meta.Date.Format(time.RFC3339),
		DateModified:  p.Meta.Updated.Format(time.RFC3339),
		Description:   description,
		Image:         a.OGImage(p.Title(), p.Meta.Image),
		URL:           a.AbsURL(p.Route()),
		Author:        person{Type: "Person", Name: a.site.Author},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal structured data: %w", err)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
