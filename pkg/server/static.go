package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// staticAssets are the editor's support files, each served from the static
// root under its own name.
var staticAssets = []string{
	"styles.css",
	"clippy.svg",
	"favicon.ico",
	"script.js",
	"copy.js",
	"markdown.js",
	"history.js",
}

// serveAsset returns a handler serving one fixed asset from the static root.
func (ns *NoteServer) serveAsset(name string) echo.HandlerFunc {
	path := filepath.Join(ns.staticRoot, name)

	return func(ctx echo.Context) error {
		if !regularFileExists(path) {
			return ctx.NoContent(http.StatusNotFound)
		}

		setNoCacheHeaders(ctx)
		return ctx.File(path)
	}
}

// servePublicJS serves vendored editor scripts from <static root>/public/js.
// The file parameter comes from the URL, so it gets the same traversal
// treatment as upload names.
func (ns *NoteServer) servePublicJS(ctx echo.Context) error {
	name := ctx.Param("file")
	for strings.Contains(name, "../") {
		name = strings.ReplaceAll(name, "../", "")
	}

	dir := filepath.Join(ns.staticRoot, "public", "js")
	path := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ctx.NoContent(http.StatusNotFound)
	}

	if !regularFileExists(path) {
		return ctx.NoContent(http.StatusNotFound)
	}

	setNoCacheHeaders(ctx)
	return ctx.File(path)
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
