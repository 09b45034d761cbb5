package site

import "git.home.luguber.info/inful/folio/internal/config"

// Theme is the color-mode preference a page is rendered with. It is created
// once per Assembler and handed to every view; templates read it from the
// view and nowhere else. The visitor's own choice is stored client-side by
// the toggle script and overrides the default at load time.
type Theme struct {
	mode config.ColorMode
}

// NewTheme returns a Theme for mode, normalizing unknown values to system.
func NewTheme(mode config.ColorMode) Theme {
	return Theme{mode: config.NormalizeColorMode(string(mode))}
}

// Mode returns the default color mode.
func (t Theme) Mode() config.ColorMode {
	if t.mode == "" {
		return config.ColorModeSystem
	}
	return t.mode
}

// Attr is the value of the document's data-theme attribute.
func (t Theme) Attr() string {
	return string(t.Mode())
}
