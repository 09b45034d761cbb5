package site

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// SitemapEntry is one URL of the sitemap with its last modification time.
type SitemapEntry struct {
	URL          string    `json:"url"`
	LastModified time.Time `json:"lastModified"`
}

// Sitemap lists the home page, the listing, every page and every post as
// absolute URLs. Home and listing take the newest post's date.
func (a *Assembler) Sitemap() []SitemapEntry {
	var newest time.Time
	if p, ok := a.index.Newest(); ok {
		newest = p.Date()
	}
	entries := []SitemapEntry{
		{URL: a.AbsURL("/"), LastModified: newest},
		{URL: a.AbsURL(listingRoute), LastModified: newest},
	}
	for p := range a.index.Pages() {
		entries = append(entries, SitemapEntry{URL: a.AbsURL(p.Route()), LastModified: p.Date()})
	}
	for p := range a.index.SortedByRecency() {
		entries = append(entries, SitemapEntry{URL: a.AbsURL(p.Route()), LastModified: lastModified(p.Date(), p.Meta.Updated)})
	}
	return entries
}

func lastModified(published, updated time.Time) time.Time {
	if updated.After(published) {
		return updated
	}
	return published
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemapXML writes entries as a sitemaps.org urlset sorted by location.
func WriteSitemapXML(w io.Writer, entries []SitemapEntry) error {
	sorted := append([]SitemapEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].URL < sorted[j].URL })

	doc := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	seen := make(map[string]struct{}, len(sorted))
	for _, e := range sorted {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		u := sitemapURL{Loc: e.URL}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		doc.URLs = append(doc.URLs, u)
	}
	return writeXML(w, doc)
}

// Robots returns a robots.txt allowing everything and pointing at the sitemap.
func (a *Assembler) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", a.AbsURL("/sitemap.xml"))
	return b.String()
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
