package frontmatter

import (
	"testing"
	"time"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_DeterministicOrder(t *testing.T) {
	fields := map[string]any{"b": "two", "a": "one", "c": 3}

	out1, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	out2, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out1))
}

func TestSerializeYAML_NewlineStyle_CRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"a": "one"}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "a: one\r\n", string(out))
}

func TestSerializeYAML_NestedMapAndDates(t *testing.T) {
	fields := map[string]any{
		"outer": map[any]any{"b": 2, "a": 1},
		"date":  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		"tags":  []string{"go", "web"},
	}

	out, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	require.Equal(t, "date: 2024-03-09\nouter:\n  a: 1\n  b: 2\ntags: [go, web]\n", string(out))
}

func TestFingerprint_IgnoresStoredFingerprint(t *testing.T) {
	body := []byte("# Hi\n")
	fields := Fields{"title": "Hello"}

	fp1, err := Fingerprint(fields, body)
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	fields[mdfp.FingerprintField] = fp1
	fp2, err := Fingerprint(fields, body)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)

	fp3, err := Fingerprint(fields, []byte("# Changed\n"))
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp3)
}
