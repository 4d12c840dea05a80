package server

import (
	"errors"
	"net/http"

	"webnote/pkg/log"
	"webnote/pkg/store"

	"github.com/labstack/echo/v4"
)

// serveTmpFile serves a stored upload back out of the note root. Anything
// the store refuses to resolve, traversal attempts included, is a 404.
func (ns *NoteServer) serveTmpFile(ctx echo.Context) error {
	name := ctx.Param("file")
	setNoCacheHeaders(ctx)

	path, err := ns.store.ReadUpload(name)
	if err != nil {
		var notFoundErr store.FileNotFoundError
		var invalidErr store.InvalidNameError
		if errors.As(err, &notFoundErr) || errors.As(err, &invalidErr) {
			return ctx.NoContent(http.StatusNotFound)
		}
		log.Error().Err(err).Str("file", name).Msg("Failed to resolve upload")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.File(path)
}
