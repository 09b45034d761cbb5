package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/chat"
	"git.home.luguber.info/inful/folio/internal/content"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Bind(&Global{}), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(&cli)
}

func TestInitNewBuild(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "folio.yaml")

	require.NoError(t, run(t, "-c", cfgPath, "init"))
	require.FileExists(t, cfgPath)
	require.DirExists(t, filepath.Join(dir, "content", "posts"))
	require.DirExists(t, filepath.Join(dir, "content", "static"))

	err := run(t, "-c", cfgPath, "init")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.NoError(t, run(t, "-c", cfgPath, "init", "--force"))

	require.NoError(t, run(t, "-c", cfgPath, "new", "Hello World", "--publish", "--date", "2024-01-02", "-t", "go,notes"))
	require.NoError(t, run(t, "-c", cfgPath, "new", "Work in progress"))
	require.FileExists(t, filepath.Join(dir, "content", "posts", "hello-world.md"))

	err = run(t, "-c", cfgPath, "new", "Bad date", "--date", "02/01/2024")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	require.NoError(t, run(t, "-c", cfgPath, "build"))
	require.FileExists(t, filepath.Join(dir, "public", "blog", "hello-world", "index.html"))
	require.NoFileExists(t, filepath.Join(dir, "public", "blog", "work-in-progress", "index.html"))

	out := filepath.Join(dir, "drafts-out")
	require.NoError(t, run(t, "-c", cfgPath, "build", "--drafts", "-o", out))
	require.FileExists(t, filepath.Join(out, "blog", "work-in-progress", "index.html"))
}

func TestBuild_MissingConfig(t *testing.T) {
	err := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"), "build")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestPrintIndex(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	require.NoError(t, os.MkdirAll(posts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "a.md"), []byte("---\ntitle: Older\ndate: 2023-01-01\npostNum: 1\n---\nx\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "b.md"), []byte("---\ntitle: Newer\ndate: 2024-01-01\n---\ny\n"), 0o600))

	ix, err := content.Load(context.Background(), os.DirFS(root), content.LoadOptions{PostsDir: "posts"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printIndex(&buf, ix))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[1], "b "))
	require.Contains(t, lines[1], "2024-01-01")
	require.True(t, strings.HasPrefix(lines[2], "a "))
	require.Contains(t, lines[2], " 1 ")
	require.Equal(t, "2 posts, 0 pages, order date", lines[3])
}

type scriptedCompleter struct{ answers map[string]string }

func (s scriptedCompleter) Complete(_ context.Context, q string) (chat.Answer, error) {
	if a, ok := s.answers[q]; ok {
		return chat.Answer{Text: a}, nil
	}
	return chat.Answer{}, errors.New("unknown question")
}

func TestConverse(t *testing.T) {
	conv := chat.NewConversation()
	client := scriptedCompleter{answers: map[string]string{"hi": "hello there"}}
	in := strings.NewReader("hi\n\nwho?\nexit\nnever asked\n")
	var out bytes.Buffer

	require.NoError(t, converse(context.Background(), in, &out, conv, client))
	require.Contains(t, out.String(), "hello there")
	require.Contains(t, out.String(), "Error: unknown question")
	require.NotContains(t, out.String(), "never asked")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, chat.RoleUser, msgs[0].Role)
	require.Equal(t, chat.RoleAssistant, msgs[1].Role)
}
