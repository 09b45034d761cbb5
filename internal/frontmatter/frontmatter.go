// Package frontmatter splits content files into a metadata block and a
// Markdown body, and writes metadata back out as YAML.
package frontmatter

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// Fields is the decoded metadata block of a content file.
type Fields map[string]any

// Parse separates a leading metadata block from the body. YAML (---), TOML
// (+++) and JSON blocks are recognized. A file without a block yields empty,
// non-nil Fields and the whole input as body; a block that fails to decode is
// an error.
func Parse(raw []byte) (Fields, []byte, error) {
	fields := Fields{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fields)
	if err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, body, nil
}

// Has reports whether key is present with a non-nil value.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Compose renders a document with a YAML block followed by body. Empty fields
// produce the body alone.
func Compose(fields Fields, body []byte, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}
	yml, err := SerializeYAML(fields, style)
	if err != nil {
		return nil, err
	}
	nl := style.newline()

	var out bytes.Buffer
	out.Grow(len(yml) + len(body) + 8)
	out.WriteString("---" + nl)
	out.Write(yml)
	out.WriteString("---" + nl)
	out.Write(body)
	return out.Bytes(), nil
}
