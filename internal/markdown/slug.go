package markdown

import (
	"regexp"
	"strings"
)

var (
	slugSpace   = regexp.MustCompile(`[\s\p{Z}]+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
	slugHyphens = regexp.MustCompile(`--+`)
)

// Slugify derives an anchor id from heading text: lower-cased and trimmed,
// whitespace runs become "-", "&" becomes "-and-", everything outside
// [A-Za-z0-9_-] is dropped and hyphen runs collapse to one.
//
// Slugify(Slugify(s)) == Slugify(s) for every s.
func Slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = slugSpace.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = slugInvalid.ReplaceAllString(s, "")
	return slugHyphens.ReplaceAllString(s, "-")
}
