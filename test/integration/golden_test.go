package integration

import (
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/server/handlers"
	"git.home.luguber.info/inful/folio/internal/server/httpserver"
	"git.home.luguber.info/inful/folio/internal/subscribe"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

const (
	blogRepo   = "../testdata/repos/blog"
	blogConfig = "../testdata/configs/blog.yaml"
	blogGolden = "../testdata/golden/blog"
)

// TestGolden_BlogFromRepository builds the sample blog from a git remote and
// checks the published file tree and the manifest routes.
func TestGolden_BlogFromRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	repoPath := setupTestRepo(t, blogRepo)
	cfg := loadGoldenConfig(t, blogConfig, repoPath, "https://buttondown.invalid/v1/subscribers")

	result := runBuild(t, cfg)
	require.Equal(t, 2, result.Posts)
	require.Equal(t, 1, result.Pages)
	require.Equal(t, 1, result.DraftsSkipped)
	require.Zero(t, result.BrokenLinks)
	require.NotEmpty(t, result.Commit)

	verifyGoldenJSON(t, blogGolden+"/structure.golden.json", buildStructureTree(result.OutputPath), *updateGolden)
	verifyGoldenJSON(t, blogGolden+"/routes.golden.json", readRoutes(t, result.OutputPath), *updateGolden)
}

// TestServe_BuiltBlog serves a built blog and exercises the pages and the
// subscribe route against a stub provider.
func TestServe_BuiltBlog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var mu sync.Mutex
	var subscribed, auth []string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		subscribed = append(subscribed, string(body))
		auth = append(auth, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer provider.Close()

	repoPath := setupTestRepo(t, blogRepo)
	cfg := loadGoldenConfig(t, blogConfig, repoPath, provider.URL)
	result := runBuild(t, cfg)

	sc := cfg.Subscribe
	svc := subscribe.NewService(subscribe.NewButtondown(sc.Endpoint, sc.APIKey, sc.Timeout))
	srv := httpserver.New(cfg.Server, httpserver.Options{
		SiteDir:   result.OutputPath,
		Subscribe: handlers.NewSubscribeHandlers(svc, sc.BotCheck.TokenHeader),
		Status:    staticStatus{result: result},
	})
	h := srv.Handler()

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	home := get("/")
	require.Equal(t, http.StatusOK, home.Code)
	require.Contains(t, home.Body.String(), "Second Post")
	require.NotContains(t, home.Body.String(), "Hello, World", "home lists only the newest post")

	post := get("/blog/hello-world")
	require.Equal(t, http.StatusOK, post.Code)
	require.Contains(t, post.Body.String(), "Hello, World | Golden Blog")

	require.Equal(t, http.StatusNotFound, get("/blog/unfinished").Code)
	require.Contains(t, get("/rss").Body.String(), "<rss")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"Reader@Example.com"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"nope"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, subscribed, 1)
	require.JSONEq(t, `{"email_address":"reader@example.com"}`, subscribed[0])
	require.Equal(t, "Token test-key", auth[0])

	health := get("/healthz")
	require.Contains(t, health.Body.String(), `"posts":2`)
}

type staticStatus struct{ result *build.Result }

func (s staticStatus) LastBuild() *build.Result { return s.result }
