package markdown

import "strings"

// LinkKind classifies a link destination.
type LinkKind int

const (
	// LinkExternal opens in a new browsing context without opener or referrer.
	LinkExternal LinkKind = iota
	// LinkInternal is a site-relative path.
	LinkInternal
	// LinkAnchor points into the current page.
	LinkAnchor
)

func (k LinkKind) String() string {
	switch k {
	case LinkInternal:
		return "internal"
	case LinkAnchor:
		return "anchor"
	default:
		return "external"
	}
}

// ClassifyLink maps a destination to its kind.
func ClassifyLink(href string) LinkKind {
	switch {
	case strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//"):
		return LinkInternal
	case strings.HasPrefix(href, "#"):
		return LinkAnchor
	default:
		return LinkExternal
	}
}

// LinkRef is a link or image destination found in a document.
type LinkRef struct {
	Href  string
	Kind  LinkKind
	Image bool
}

// Links returns every link and image destination of doc in document order.
func Links(doc *Document) []LinkRef {
	var refs []LinkRef
	Walk(doc, func(n Node) bool {
		switch v := n.(type) {
		case *Link:
			refs = append(refs, LinkRef{Href: v.Href, Kind: v.Kind})
		case *Image:
			refs = append(refs, LinkRef{Href: v.Src, Kind: ClassifyLink(v.Src), Image: true})
		}
		return true
	})
	return refs
}

// HeadingRef is a table-of-contents entry.
type HeadingRef struct {
	Level int
	ID    string
	Text  string
}

// Headings returns the headings of doc in document order.
func Headings(doc *Document) []HeadingRef {
	var out []HeadingRef
	Walk(doc, func(n Node) bool {
		if h, ok := n.(*Heading); ok {
			out = append(out, HeadingRef{Level: h.Level, ID: h.ID, Text: PlainText(h)})
			return false
		}
		return true
	})
	return out
}

// WordCount counts whitespace-separated words of a raw body.
func WordCount(body []byte) int {
	return len(strings.Fields(string(body)))
}
