package integration

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/config"
)

// RouteSet is the normalized, golden-comparable part of a build manifest.
type RouteSet struct {
	Posts []Route `json:"posts"`
	Pages []Route `json:"pages"`
}

// Route is a manifest entry without its fingerprint.
type Route struct {
	Slug  string    `json:"slug"`
	Route string    `json:"route"`
	Title string    `json:"title"`
	Date  time.Time `json:"date,omitzero"`
}

// setupTestRepo creates a temporary git repository on branch main from a
// directory structure, with one commit containing all files.
func setupTestRepo(t *testing.T, repoPath string) string {
	t.Helper()

	tmpDir := t.TempDir()
	require.NoError(t, copyDir(repoPath, tmpDir), "failed to copy test repo files")

	repo, err := git.PlainInitWithOptions(tmpDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err, "failed to initialize git repo")

	w, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")
	require.NoError(t, w.AddGlob("."), "failed to add files to git")

	_, err = w.Commit("Initial test commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err, "failed to create initial commit")
	return tmpDir
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if strings.Contains(relPath, ".git") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		targetPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(targetPath, 0o750)
		}
		return copyFile(path, targetPath)
	})
}

func copyFile(src, dst string) error {
	// #nosec G304 -- test utility copying testdata
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// loadGoldenConfig loads a testdata configuration with repoURL and
// subscribeURL substituted for its environment references.
func loadGoldenConfig(t *testing.T, configPath, repoURL, subscribeURL string) *config.Config {
	t.Helper()
	t.Setenv("FOLIO_TEST_REPO", repoURL)
	t.Setenv("FOLIO_TEST_BUTTONDOWN", subscribeURL)
	cfg, err := config.Load(configPath)
	require.NoError(t, err, "failed to load golden config")
	return cfg
}

// runBuild builds cfg into a fresh directory with a fixed clock.
func runBuild(t *testing.T, cfg *config.Config) *build.Result {
	t.Helper()
	svc := build.NewService(build.WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}))
	t.Cleanup(func() { _ = svc.Close() })

	result, err := svc.Run(t.Context(), build.Request{
		Config:    cfg,
		OutputDir: filepath.Join(t.TempDir(), "public"),
	})
	require.NoError(t, err, "build failed")
	require.Equal(t, build.StatusSuccess, result.Status)
	return result
}

// verifyGoldenJSON compares actual against the golden file, rewriting the
// file instead when update is set.
func verifyGoldenJSON(t *testing.T, goldenPath string, actual any, update bool) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	require.NoError(t, err)
	if update {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750))
		require.NoError(t, os.WriteFile(goldenPath, append(data, '\n'), 0o600))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- test utility reading golden file from testdata
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)
	require.JSONEq(t, string(golden), string(data), "output differs from %s", goldenPath)
}

// readRoutes loads the manifest of a build and drops the volatile fields.
func readRoutes(t *testing.T, outputDir string) RouteSet {
	t.Helper()
	// #nosec G304 -- reading the manifest of a test build
	data, err := os.ReadFile(filepath.Join(outputDir, "manifest.json"))
	require.NoError(t, err)

	var m build.Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	set := RouteSet{Posts: []Route{}, Pages: []Route{}}
	for _, e := range m.Posts {
		require.NotEmpty(t, e.Fingerprint, "post %s has no fingerprint", e.Slug)
		set.Posts = append(set.Posts, Route{Slug: e.Slug, Route: e.Route, Title: e.Title, Date: e.Date})
	}
	for _, e := range m.Pages {
		set.Pages = append(set.Pages, Route{Slug: e.Slug, Route: e.Route, Title: e.Title, Date: e.Date})
	}
	return set
}

// buildStructureTree creates a nested map representing the directory structure.
func buildStructureTree(rootDir string) map[string]any {
	tree := make(map[string]any)

	_ = filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || path == rootDir {
			return err
		}
		relPath, _ := filepath.Rel(rootDir, path)
		addPathToTree(tree, strings.Split(relPath, string(filepath.Separator)), info.IsDir())
		return nil
	})
	return tree
}

// addPathToTree adds a file or directory path to the structure tree.
func addPathToTree(tree map[string]any, parts []string, isDir bool) {
	current := tree
	for i, part := range parts {
		if i == len(parts)-1 {
			if _, exists := current[part]; !exists || !isDir {
				current[part] = map[string]any{}
			}
			return
		}
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		current = current[part].(map[string]any)
	}
}
