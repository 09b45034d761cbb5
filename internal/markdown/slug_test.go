package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hi", "hi"},
		{"  Hello World  ", "hello-world"},
		{"Rock & Roll", "rock-and-roll"},
		{"What's new in Go 1.22?", "whats-new-in-go-122"},
		{"a -- b", "a-b"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"snake_case_kept", "snake_case_kept"},
		{"Ünïcödé", "ncd"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World", "A & B & C", "---lead", "trail---", "  mixed space ",
		"Émigré café", "x&&y", "100% done!", "-&-", "already-a-slug",
	}
	for _, in := range inputs {
		once := Slugify(in)
		require.Equal(t, once, Slugify(once), "input %q", in)
		require.Equal(t, once, Slugify(in), "deterministic for %q", in)
	}
}
