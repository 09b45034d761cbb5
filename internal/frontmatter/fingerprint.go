package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint computes the content fingerprint of a document. The fingerprint
// field itself is excluded so a stored fingerprint never changes the hash.
func Fingerprint(fields Fields, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		hashed[k] = v
	}

	fm := ""
	if len(hashed) > 0 {
		serialized, err := SerializeYAML(hashed, Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
