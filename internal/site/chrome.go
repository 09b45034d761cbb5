package site

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/folio/internal/markdown"
)

// NavLink is one header or footer link.
type NavLink struct {
	Name     string
	URL      string
	Active   bool
	External bool
}

// BotWidget is the verification widget rendered into the subscribe form.
// The form sends the widget's response in TokenHeader.
type BotWidget struct {
	SiteKey       string
	ScriptURL     string
	WidgetClass   string
	ResponseField string
	TokenHeader   string
}

// ResponseSelector is the CSS selector of the input the widget fills in.
func (b BotWidget) ResponseSelector() string {
	return fmt.Sprintf("[name=%q]", b.ResponseField)
}

// Chrome is the site-wide frame around every page.
type Chrome struct {
	SiteTitle string
	Language  string
	Theme     Theme
	Nav       []NavLink
	Social    []NavLink
	Year      int
	Author    string
	Subscribe bool
	BotCheck  *BotWidget
	Route     string
}

func (a *Assembler) chrome(route string) Chrome {
	nav := make([]NavLink, 0, len(a.site.Nav))
	for _, item := range a.site.Nav {
		nav = append(nav, NavLink{
			Name:     item.Name,
			URL:      item.URL,
			Active:   isActive(item.URL, route),
			External: markdown.ClassifyLink(item.URL) == markdown.LinkExternal,
		})
	}
	social := make([]NavLink, 0, len(a.site.Social))
	for _, item := range a.site.Social {
		social = append(social, NavLink{
			Name:     item.Name,
			URL:      item.URL,
			External: markdown.ClassifyLink(item.URL) == markdown.LinkExternal,
		})
	}
	return Chrome{
		SiteTitle: a.site.Title,
		Language:  a.site.Language,
		Theme:     a.theme,
		Nav:       nav,
		Social:    social,
		Year:      a.now().Year(),
		Author:    a.site.Author,
		Subscribe: a.subscribe,
		BotCheck:  a.botCheck,
		Route:     route,
	}
}

// isActive marks a nav entry for the current route; "/" only matches itself.
func isActive(link, route string) bool {
	if link == "/" {
		return route == "/"
	}
	return route == link || strings.HasPrefix(route, strings.TrimSuffix(link, "/")+"/")
}
