package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Slug", KeySlug, "hello-world", Slug("hello-world")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "posts/a.md", File("posts/a.md")},
		{"Route", KeyRoute, "/blog/a", Route("/blog/a")},
		{"Stage", KeyStage, "render", Stage("render")},
		{"Commit", KeyCommit, "abc123", Commit("abc123")},
		{"Method", KeyMethod, "POST", Method("POST")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Outcome", KeyOutcome, "invalid", Outcome("invalid")},
		{"Subject", KeySubject, "folio.subscribers", Subject("folio.subscribers")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Key drift would break log ingestion schemas.
			require.Equal(t, tc.attrKey, tc.attr.Key)
			require.Equal(t, tc.attrVal, tc.attr.Value.String())
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	require.Equal(t, KeyStatus, Status(200).Key)
	require.Equal(t, KeyResponseSz, ResponseSize(42).Key)
	require.Equal(t, KeyDurationMS, DurationMS(12.5).Key)
	require.Equal(t, int64(3), Count(3).Value.Int64())
}

func TestErrorHelper(t *testing.T) {
	require.Equal(t, "", Error(nil).Value.String())
	require.Equal(t, "err-test", Error(errors.New("err-test")).Value.String())
}
