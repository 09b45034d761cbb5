package build

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/version"
)

// Manifest records what a build published. It is written to manifest.json
// in the output root.
type Manifest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Version     string          `json:"version"`
	Commit      string          `json:"commit,omitempty"`
	Posts       []ManifestEntry `json:"posts"`
	Pages       []ManifestEntry `json:"pages"`
}

// ManifestEntry is one published post or page.
type ManifestEntry struct {
	Slug        string    `json:"slug"`
	Route       string    `json:"route"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date,omitzero"`
	Fingerprint string    `json:"fingerprint"`
}

func newManifest(index *content.Index, commit string, now time.Time) *Manifest {
	m := &Manifest{
		GeneratedAt: now.UTC(),
		Version:     version.Version,
		Commit:      commit,
		Posts:       []ManifestEntry{},
		Pages:       []ManifestEntry{},
	}
	for p := range index.SortedByRecency() {
		m.Posts = append(m.Posts, entryOf(p))
	}
	for p := range index.Pages() {
		m.Pages = append(m.Pages, entryOf(p))
	}
	return m
}

func entryOf(p *content.Post) ManifestEntry {
	return ManifestEntry{
		Slug:        p.Slug,
		Route:       p.Route(),
		Title:       p.Title(),
		Date:        p.Date(),
		Fingerprint: p.Fingerprint,
	}
}

func writeManifest(w *siteWriter, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return w.write("manifest.json", append(data, '\n'))
}
