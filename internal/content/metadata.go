package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// Metadata is the typed view of a content file's front matter.
type Metadata struct {
	Title      string
	Date       time.Time
	Updated    time.Time
	PostNum    *int
	Categories []string
	Draft      bool
	Summary    string
	Image      string
	Author     string

	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string

	// Raw keeps every field as decoded, including ones folio does not interpret.
	Raw frontmatter.Fields
}

// FieldError reports a required or malformed metadata field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("front matter field %q %s", e.Field, e.Reason)
}

var (
	reasonMissing = "is required"
	dateKeys      = []string{"date", "publishedAt", "published"}
	updateKeys    = []string{"updated", "lastmod", "updatedAt"}
)

// DecodeMetadata converts raw fields into Metadata. When strict is true a
// missing title or date is an error; otherwise those fields stay zero.
func DecodeMetadata(fields frontmatter.Fields, strict bool) (Metadata, error) {
	m := Metadata{Raw: fields}

	m.Title = strings.TrimSpace(cast.ToString(fields["title"]))
	if strict && m.Title == "" {
		return m, &FieldError{Field: "title", Reason: reasonMissing}
	}

	date, key, err := firstTime(fields, dateKeys)
	switch {
	case err != nil:
		return m, &FieldError{Field: key, Reason: "is not a valid date: " + err.Error()}
	case date.IsZero() && strict:
		return m, &FieldError{Field: "date", Reason: reasonMissing}
	}
	m.Date = date

	updated, key, err := firstTime(fields, updateKeys)
	if err != nil {
		return m, &FieldError{Field: key, Reason: "is not a valid date: " + err.Error()}
	}
	if updated.IsZero() {
		updated = date
	}
	m.Updated = updated

	if v, ok := fields["postNum"]; ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return m, &FieldError{Field: "postNum", Reason: "is not a number"}
		}
		m.PostNum = &n
	}

	m.Categories = stringList(fields["categories"])
	if len(m.Categories) == 0 {
		m.Categories = stringList(fields["tags"])
	}

	m.Draft = cast.ToBool(fields["draft"])
	if v, ok := fields["ready"]; ok && v != nil && !cast.ToBool(v) {
		m.Draft = true
	}

	m.Summary = strings.TrimSpace(cast.ToString(firstOf(fields, "summary", "description")))
	m.Image = cast.ToString(fields["image"])
	m.Author = cast.ToString(fields["author"])
	m.TwitterTitle = cast.ToString(fields["twitterTitle"])
	m.TwitterDescription = cast.ToString(fields["twitterDescription"])
	m.TwitterImage = cast.ToString(fields["twitterImage"])
	return m, nil
}

func firstOf(fields frontmatter.Fields, keys ...string) any {
	for _, k := range keys {
		if fields.Has(k) {
			return fields[k]
		}
	}
	return nil
}

// firstTime parses the first present key of keys. All dates without an
// explicit zone are read as UTC so builds do not depend on the host zone.
func firstTime(fields frontmatter.Fields, keys []string) (time.Time, string, error) {
	for _, k := range keys {
		if !fields.Has(k) {
			continue
		}
		t, err := cast.ToTimeInDefaultLocationE(fields[k], time.UTC)
		if err != nil {
			return time.Time{}, k, err
		}
		return t.UTC(), k, nil
	}
	return time.Time{}, "", nil
}

// stringList accepts a YAML list or a comma separated string.
func stringList(v any) []string {
	if v == nil {
		return nil
	}
	var items []string
	if s, ok := v.(string); ok {
		items = strings.Split(s, ",")
	} else {
		items = cast.ToStringSlice(v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
