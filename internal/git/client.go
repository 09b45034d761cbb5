package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// checkoutDir is the directory inside the workspace holding the clone.
const checkoutDir = "content"

// Checkout is the state of a synced repository.
type Checkout struct {
	Path   string
	Commit string
	Branch string
}

// Client handles Git operations inside one workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a new Git client with the specified workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Sync clones repo into the workspace or, when a clone already exists, brings
// it up to date with the remote branch.
func (c *Client) Sync(ctx context.Context, repo config.RepositoryConfig) (*Checkout, error) {
	path := filepath.Join(c.workspaceDir, checkoutDir)
	branch := repo.Branch
	if branch == "" {
		branch = "main"
	}
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return c.clone(ctx, path, branch, repo)
	}
	return c.update(ctx, path, branch, repo)
}

func (c *Client) clone(ctx context.Context, path, branch string, repo config.RepositoryConfig) (*Checkout, error) {
	slog.Debug("Cloning content repository", logfields.URL(repo.URL), slog.String("branch", branch), logfields.Path(path))
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove stale checkout: %w", err)
	}

	opts := &git.CloneOptions{
		URL:           repo.URL,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         repo.Depth,
		Tags:          git.NoTags,
		Auth:          authFor(repo),
	}
	repository, err := git.PlainCloneContext(ctx, path, false, opts)
	if err != nil {
		return nil, classifyGitError(err, "clone", repo.URL)
	}
	out, err := checkoutOf(repository, path, branch)
	if err != nil {
		return nil, err
	}
	slog.Info("Content repository cloned", logfields.URL(repo.URL), logfields.Commit(short(out.Commit)), logfields.Path(path))
	return out, nil
}

func (c *Client) update(ctx context.Context, path, branch string, repo config.RepositoryConfig) (*Checkout, error) {
	repository, err := git.PlainOpen(path)
	if err != nil {
		return nil, classifyGitError(err, "open", repo.URL)
	}

	remoteRef := plumbing.NewRemoteReferenceName("origin", branch)
	spec := ggitcfg.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), remoteRef))
	err = repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Depth:      repo.Depth,
		Tags:       git.NoTags,
		Force:      true,
		Auth:       authFor(repo),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, classifyGitError(err, "fetch", repo.URL)
	}

	ref, err := repository.Reference(remoteRef, true)
	if err != nil {
		return nil, classifyGitError(err, "resolve", repo.URL)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return nil, classifyGitError(err, "worktree", repo.URL)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: ref.Hash(), Mode: git.HardReset}); err != nil {
		return nil, classifyGitError(err, "reset", repo.URL)
	}

	out, err := checkoutOf(repository, path, branch)
	if err != nil {
		return nil, err
	}
	slog.Info("Content repository updated", logfields.URL(repo.URL), logfields.Commit(short(out.Commit)))
	return out, nil
}

func checkoutOf(repository *git.Repository, path, branch string) (*Checkout, error) {
	head, err := repository.Head()
	if err != nil {
		return nil, classifyGitError(err, "head", path)
	}
	return &Checkout{Path: path, Commit: head.Hash().String(), Branch: branch}, nil
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
