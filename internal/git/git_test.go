package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func initRemote(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote")
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, body string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Writer", Email: "writer@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestSync_ClonesThenUpdates(t *testing.T) {
	remoteDir, remote := initRemote(t)
	first := commitFile(t, remoteDir, remote, "posts/hello.md", "---\ntitle: Hello\n---\n")

	client := NewClient(t.TempDir())
	repo := config.RepositoryConfig{URL: remoteDir, Branch: "main"}

	co, err := client.Sync(context.Background(), repo)
	require.NoError(t, err)
	require.Equal(t, first, co.Commit)
	require.Equal(t, "main", co.Branch)
	require.FileExists(t, filepath.Join(co.Path, "posts", "hello.md"))

	second := commitFile(t, remoteDir, remote, "posts/again.md", "---\ntitle: Again\n---\n")
	co, err = client.Sync(context.Background(), repo)
	require.NoError(t, err)
	require.Equal(t, second, co.Commit)
	require.FileExists(t, filepath.Join(co.Path, "posts", "again.md"))

	// A second sync without remote changes is a no-op.
	co, err = client.Sync(context.Background(), repo)
	require.NoError(t, err)
	require.Equal(t, second, co.Commit)
}

func TestSync_MissingBranch(t *testing.T) {
	remoteDir, remote := initRemote(t)
	commitFile(t, remoteDir, remote, "README.md", "x")

	_, err := NewClient(t.TempDir()).Sync(context.Background(), config.RepositoryConfig{URL: remoteDir, Branch: "nope"})
	require.Error(t, err)
	_, ok := ferrors.AsClassified(err)
	require.True(t, ok)
}

func TestAuthFor(t *testing.T) {
	require.Nil(t, authFor(config.RepositoryConfig{URL: "https://example.com/r.git"}))

	auth := authFor(config.RepositoryConfig{Token: "secret"})
	basic, ok := auth.(*http.BasicAuth)
	require.True(t, ok)
	require.Equal(t, "token", basic.Username)
	require.Equal(t, "secret", basic.Password)

	basic = authFor(config.RepositoryConfig{Token: "secret", Username: "me"}).(*http.BasicAuth)
	require.Equal(t, "me", basic.Username)
}

func TestClassifyGitError(t *testing.T) {
	tests := []struct {
		msg  string
		want ferrors.ErrorCategory
	}{
		{"authentication required", ferrors.CategoryConfig},
		{"repository not found", ferrors.CategoryNotFound},
		{"dial tcp: i/o timeout", ferrors.CategoryNetwork},
		{"object not found in pack", ferrors.CategoryGit},
	}
	for _, tt := range tests {
		err := classifyGitError(errString(tt.msg), "clone", "u")
		require.True(t, ferrors.HasCategory(err, tt.want), tt.msg)
	}
	require.NoError(t, classifyGitError(nil, "clone", "u"))
}

type errString string

func (e errString) Error() string { return string(e) }
