package site

import (
	"encoding/xml"
	"io"
	"time"

	"git.home.luguber.info/inful/folio/internal/markdown"
)

// DefaultFeedItems caps the feed when no limit is configured.
const DefaultFeedItems = 100

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Self          atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description string   `xml:"description,omitempty"`
	Categories  []string `xml:"category,omitempty"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// WriteFeed writes an RSS 2.0 feed of the newest posts, at most limit items
// (DefaultFeedItems when limit is not positive).
func (a *Assembler) WriteFeed(w io.Writer, limit int) error {
	if limit <= 0 {
		limit = DefaultFeedItems
	}
	ch := rssChannel{
		Title:       a.site.Title,
		Link:        a.AbsURL("/"),
		Description: a.site.Description,
		Language:    a.site.Language,
		Self:        atomLink{Href: a.AbsURL("/rss.xml"), Rel: "self", Type: "application/rss+xml"},
	}
	if p, ok := a.index.Newest(); ok {
		ch.LastBuildDate = p.Date().UTC().Format(time.RFC1123Z)
	}
	for p := range a.index.SortedByRecency() {
		if len(ch.Items) == limit {
			break
		}
		link := a.AbsURL(p.Route())
		description := p.Meta.Summary
		if description == "" {
			description = markdown.Excerpt(markdown.Parse(p.Body), summaryRunes)
		}
		ch.Items = append(ch.Items, rssItem{
			Title:       p.Title(),
			Link:        link,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			PubDate:     p.Date().UTC().Format(time.RFC1123Z),
			Description: description,
			Categories:  p.Meta.Categories,
		})
	}
	return writeXML(w, rss{Version: "2.0", Atom: "http://www.w3.org/2005/Atom", Channel: ch})
}
