package content

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Discover returns the slash-separated paths of the Markdown files directly
// inside dir, in lexical order. Hidden files and sub-directories are skipped.
func Discover(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory %s: %w", dir, err)
	}

	// fs.ReadDir returns entries sorted by filename.
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !isMarkdown(name) {
			continue
		}
		paths = append(paths, path.Join(dir, name))
	}
	return paths, nil
}

// SlugFromPath derives a content identifier from its file name.
func SlugFromPath(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func isMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}
