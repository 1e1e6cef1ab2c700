// Package static serves the single page app bundle. Paths that are not
// files fall back to index.html so client side routes survive a reload.
package static

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

type Handler struct {
	root fs.FS
	fs   http.Handler
}

func NewHandler(root fs.FS) *Handler {
	return &Handler{root: root, fs: http.FileServerFS(root)}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	info, err := fs.Stat(h.root, name)
	if err == nil && !info.IsDir() {
		h.fs.ServeHTTP(w, r)
		return
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Missing files with an extension are real 404s, not app routes.
	if path.Ext(name) != "" {
		http.NotFound(w, r)
		return
	}

	http.ServeFileFS(w, r, h.root, "index.html")
}
