package server

import "github.com/labstack/echo/v4"

// setNoCacheHeaders marks a response as uncacheable. Note bodies change
// under a stable URL, so anything derived from one must never be served
// stale by a shared cache.
func setNoCacheHeaders(ctx echo.Context) {
	h := ctx.Response().Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
