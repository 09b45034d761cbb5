package httpserver

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// aliases map extension-less convenience routes to generated files.
var aliases = map[string]string{
	"/rss":  "/rss.xml",
	"/feed": "/rss.xml",
}

const notFoundFile = "404.html"

// siteHandler serves a generated site directory. Clean URLs resolve to
// <path>/index.html, directories are never listed and misses render the
// generated 404 page.
type siteHandler struct {
	root fs.FS
}

func newSiteHandler(dir string) http.Handler {
	return &siteHandler{root: os.DirFS(dir)}
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	if alias, ok := aliases[urlPath]; ok {
		urlPath = alias
	}

	name, ok := h.resolve(urlPath)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.serveFile(w, r, name, http.StatusOK)
}

// resolve maps a cleaned URL path to a regular file inside root.
func (h *siteHandler) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	candidates := []string{path.Join(rel, "index.html")}
	if rel != "" {
		candidates = append([]string{rel}, candidates...)
	}
	for _, c := range candidates {
		if c == "" || !fs.ValidPath(c) {
			continue
		}
		st, err := fs.Stat(h.root, c)
		if err == nil && st.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

func (h *siteHandler) notFound(w http.ResponseWriter, r *http.Request) {
	if _, err := fs.Stat(h.root, notFoundFile); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache, must-revalidate")
	h.serveFile(w, r, notFoundFile, http.StatusNotFound)
}

func (h *siteHandler) serveFile(w http.ResponseWriter, r *http.Request, name string, status int) {
	f, err := h.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if rs, ok := f.(io.ReadSeeker); ok && status == http.StatusOK {
		http.ServeContent(w, r, name, st.ModTime(), rs)
		return
	}

	if strings.HasSuffix(name, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, f)
	}
}

// addCacheControlHeaders wraps a handler to add Cache-Control headers by
// asset type.
func addCacheControlHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cc := determineCacheControl(r.URL.Path); cc != "" {
			w.Header().Set("Cache-Control", cc)
		}
		next.ServeHTTP(w, r)
	})
}

// determineCacheControl returns the Cache-Control value for a path. HTML is
// always revalidated so rebuilt pages show up at once.
func determineCacheControl(p string) string {
	switch path.Ext(p) {
	case ".css", ".js", ".woff", ".woff2", ".ttf", ".otf":
		return "public, max-age=86400"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".avif":
		return "public, max-age=604800"
	case ".xml", ".txt":
		return "public, max-age=3600"
	case ".html", "":
		return "no-cache, must-revalidate"
	}
	return ""
}
